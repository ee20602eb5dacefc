package util

import (
	"os"

	"github.com/0xERR0R/nsecguard/log"
)

// nolint:gochecknoglobals
var exitFn = os.Exit

// FatalOnError logs the error and terminates the process with exit code 1
func FatalOnError(message string, err error) {
	if err != nil {
		log.Log().Error(message, err)
		exitFn(1)
	}
}

// ExitOnError logs the error and terminates the process with the given exit code
func ExitOnError(code int, message string, err error) {
	if err != nil {
		log.Log().Error(message, err)
		exitFn(code)
	}
}
