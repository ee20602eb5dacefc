package helpertest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/onsi/ginkgo/v2"
)

// TmpFolder temporary folder removed after the current test
type TmpFolder struct {
	Path  string
	Error error
}

// TmpFile file created inside a TmpFolder
type TmpFile struct {
	Path  string
	Error error
}

// NewTmpFolder creates a temporary folder and registers its removal as ginkgo cleanup
func NewTmpFolder(prefix string) *TmpFolder {
	if len(prefix) == 0 {
		prefix = "nsecguard"
	}

	path, err := os.MkdirTemp("", prefix)
	if err == nil {
		ginkgo.DeferCleanup(os.RemoveAll, path)
	}

	return &TmpFolder{Path: path, Error: err}
}

// CreateStringFile writes the lines separated by '\n' into a new file
func (tf *TmpFolder) CreateStringFile(name string, lines ...string) *TmpFile {
	path := tf.JoinPath(name)

	err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o600)

	return &TmpFile{Path: path, Error: err}
}

// JoinPath returns the path of name inside the folder
func (tf *TmpFolder) JoinPath(name string) string {
	return filepath.Join(tf.Path, name)
}
