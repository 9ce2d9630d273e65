package main

import (
	"io"
	"os"
	"time"

	pdfcompose "github.com/avern/go-pdfcompose"
)

// Environment holds injectable dependencies for testability:
// I/O streams, the clock, and command execution.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer
	Runner pdfcompose.CommandRunner
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Runner: &pdfcompose.ExecRunner{},
	}
}
