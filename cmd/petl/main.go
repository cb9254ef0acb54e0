package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/vvka-141/petl/internal/cli"
	"github.com/vvka-141/petl/pkg/petl"
)

func main() {
	// A panicking stage must still exit with its own code and a stack
	// trace, so pipeline schedulers can tell a crash from a data error.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(petl.ExitPanic)
		}
	}()

	if os.Getenv("PETL_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	err := cli.Execute()
	if err == nil {
		return
	}
	os.Exit(petl.ExitCodeForError(err))
}
