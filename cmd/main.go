package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Exit codes
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

func main() {
	root := newRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		code := exitCode(err)
		if code != exitSuccess {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(code)
	}
	os.Exit(exitSuccess)
}

// exitCode maps an interrupt to exitSuccess, filesystem failures to exitSysError
// and everything else to exitUserError
func exitCode(err error) int {
	if errors.Is(err, context.Canceled) {
		return exitSuccess
	}
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return exitSysError
	}
	return exitUserError
}
