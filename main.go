package main

import (
	"os"

	"github.com/scan-io-git/revio/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
