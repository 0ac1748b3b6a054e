package main

import (
	"os"

	"gitlab.com/yarbelk/slimwc/lib/wc"
)

var revision = "local"

func main() {
	wc.Revision = revision
	os.Exit(wc.Run(os.Args[1:], wc.Std()))
}
