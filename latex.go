package pdfcompose

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Workspace file names. Relative: the engine runs inside the
// workspace directory so LaTeX scratch files land there.
const (
	texFile    = "compose.tex"
	pdfFile    = "compose.pdf"
	logFile    = "compose.log"
	bundleFile = "report.zip"
)

// compileRounds is the fixed number of engine invocations. Two rounds
// are a correctness requirement, not a retry: cross-references such as
// the total-page-count marker only stabilize on the second pass.
const compileRounds = 2

// DefaultLatexBinary is the typesetting engine executable name.
const DefaultLatexBinary = "pdflatex"

// Engine drives the external typesetting process.
type Engine struct {
	Runner CommandRunner
	Binary string
}

// NewEngine creates an engine with a real command runner.
func NewEngine() *Engine {
	return &Engine{Runner: &ExecRunner{}, Binary: DefaultLatexBinary}
}

// Compile runs the fixed two-round protocol on the markup file inside
// the workspace. A round succeeds only when the process exits zero AND
// the output file exists AND it is non-empty; any single failure takes
// the failure path. On failure with debug active, the markup and log
// are archived into a single bundle and its location is reported.
func (e *Engine) Compile(ws *Workspace, debug bool) error {
	var cause error
	for round := 1; round <= compileRounds; round++ {
		_, _, runErr := e.Runner.Run(e.Binary, "--interaction=batchmode", texFile)

		out, statErr := os.Stat(ws.Path(pdfFile))
		switch {
		case runErr == nil && statErr == nil && out.Size() > 0:
			cause = nil
		case runErr != nil:
			cause = ErrCompileFailed
		default:
			cause = ErrEmptyEngineOutput
		}
		// An intermediate failure does not short-circuit: the second
		// round runs regardless, and only its outcome is terminal.
	}
	if cause == nil {
		return nil
	}

	if !debug {
		return fmt.Errorf("%w: re-run with --debug to generate a report", cause)
	}
	bundle, zipErr := writeDebugBundle(ws)
	if zipErr != nil {
		return fmt.Errorf("%w: writing debug report also failed: %v", cause, zipErr)
	}
	return fmt.Errorf("%w: debug report written to %s", cause, bundle)
}

// writeDebugBundle archives the markup file, and the engine log when
// present, into a single zip inside the workspace.
func writeDebugBundle(ws *Workspace) (string, error) {
	bundlePath := ws.Path(bundleFile)
	f, err := os.Create(bundlePath) // #nosec G304 -- path is workspace-owned
	if err != nil {
		return "", fmt.Errorf("creating debug bundle: %w", err)
	}
	defer func() { _ = f.Close() }()

	zw := zip.NewWriter(f)
	if err := addToBundle(zw, ws.Path(texFile)); err != nil {
		return "", err
	}
	if _, err := os.Stat(ws.Path(logFile)); err == nil {
		if err := addToBundle(zw, ws.Path(logFile)); err != nil {
			return "", err
		}
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalizing debug bundle: %w", err)
	}
	return bundlePath, nil
}

func addToBundle(zw *zip.Writer, path string) error {
	src, err := os.Open(path) // #nosec G304 -- path is workspace-owned
	if err != nil {
		return fmt.Errorf("archiving %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = src.Close() }()

	dst, err := zw.Create(filepath.Base(path))
	if err != nil {
		return fmt.Errorf("archiving %s: %w", filepath.Base(path), err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("archiving %s: %w", filepath.Base(path), err)
	}
	return nil
}
