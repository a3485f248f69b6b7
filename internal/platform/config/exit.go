package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ExitInterrupted is the status used when a run ends because the user
// interrupted it.
const ExitInterrupted = 130

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	exitf(os.Stderr, os.Exit, 1, format, args...)
}

// ExitErr exits with a status derived from err. Interruptions exit quietly
// with ExitInterrupted; any other error is reported like Exitf.
func ExitErr(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		os.Exit(ExitInterrupted)
	}
	exitf(os.Stderr, os.Exit, 1, "Error: %v", err)
}

func exitf(w io.Writer, exit func(int), code int, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
	exit(code)
}
