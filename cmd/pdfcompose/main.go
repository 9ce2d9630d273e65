package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	env := DefaultEnv()

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is
	// invalid, in which case Go runtime defaults apply and the program
	// continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	os.Exit(run(os.Args[1:], env))
}

// run dispatches to the subcommands and returns an exit code.
func run(args []string, env *Environment) int {
	if len(args) > 0 {
		switch args[0] {
		case "doctor":
			return runDoctorCmd(args[1:], env)
		case "text-help":
			printTextHelp(env.Stdout)
			return ExitSuccess
		case "version":
			fmt.Fprintf(env.Stdout, "pdfcompose %s\n", Version)
			return ExitSuccess
		}
	}
	return runCompose(args, env)
}
