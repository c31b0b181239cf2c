package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/MattPrit/nexgen/internal/cli"
	"github.com/MattPrit/nexgen/pkg/nexgen"
)

func main() {
	// Recover from panics to ensure graceful exits with stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(nexgen.ExitPanic)
		}
	}()

	if os.Getenv("NEXGEN_TEST_PANIC") == "1" {
		panic("intentional test panic")
	}

	if err := cli.Execute(); err != nil {
		os.Exit(nexgen.ExitCodeForError(err))
	}
}
