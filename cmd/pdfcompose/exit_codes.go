package main

// Exit codes for the pdfcompose CLI. Every fatal error exits 1:
// missing input, existing output without --overwrite, invalid swap or
// rotate specification, and compile failure all look the same to the
// shell; the message on stderr carries the distinction.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// exitCodeFor maps an error to a process exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return ExitFailure
}
