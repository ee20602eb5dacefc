package main

import (
	"github.com/0xERR0R/nsecguard/cmd"
)

func main() {
	cmd.Execute()
}
