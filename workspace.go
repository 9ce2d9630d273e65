package pdfcompose

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is the execution context of a run: the original working
// directory and the temporary directory the engine runs in. It
// replaces ambient chdir state so every exit path, success or failure,
// restores the caller's directory deterministically before the
// temporary directory can be deleted.
type Workspace struct {
	Origin string // working directory at open time
	Dir    string // temporary or debug directory
	keep   bool
	closed bool
}

// OpenWorkspace creates the run directory and enters it. In debug mode
// the directory is debugDir under the original working directory and
// survives Close; otherwise it is a fresh system temp directory.
func OpenWorkspace(debug bool, debugDir string) (*Workspace, error) {
	origin, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	w := &Workspace{Origin: origin, keep: debug}
	if debug {
		w.Dir = filepath.Join(origin, debugDir)
		if err := os.MkdirAll(w.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating debug directory: %w", err)
		}
	} else {
		w.Dir, err = os.MkdirTemp("", "pdfcompose")
		if err != nil {
			return nil, fmt.Errorf("creating temp directory: %w", err)
		}
	}

	if err := os.Chdir(w.Dir); err != nil {
		if !w.keep {
			_ = os.RemoveAll(w.Dir)
		}
		return nil, fmt.Errorf("entering workspace: %w", err)
	}
	return w, nil
}

// Path returns the absolute path of a file inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// Close restores the original working directory and removes the run
// directory unless it is a kept debug directory. Safe to call more
// than once.
func (w *Workspace) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := os.Chdir(w.Origin)
	if !w.keep {
		if rmErr := os.RemoveAll(w.Dir); err == nil {
			err = rmErr
		}
	}
	if err != nil {
		return fmt.Errorf("closing workspace: %w", err)
	}
	return nil
}
