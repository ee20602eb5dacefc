//go:build tools
// +build tools

// see https://play-with-go.dev/tools-as-dependencies_go115_en/
package tools

import (
	_ "github.com/abice/go-enum"
	_ "github.com/onsi/ginkgo/v2/ginkgo"
)
