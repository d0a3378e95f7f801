package main

import (
	"fmt"
	"os"

	"github.com/nightwing1978/luci-go/cmd/luci/cmd"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "luci: unrecoverable error: %v\n", r)
			os.Exit(-1)
		}
	}()
	if code, err := cmd.ExecuteWithExitCode(); err != nil || code != 0 {
		os.Exit(code)
	}
}
