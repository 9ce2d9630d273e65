package pdfcompose

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultGhostscriptBinary is the Ghostscript executable name.
const DefaultGhostscriptBinary = "gs"

// GhostscriptCounter obtains PDF page counts by running Ghostscript's
// pdfpagecount operator. It never opens the document itself.
type GhostscriptCounter struct {
	Runner CommandRunner
	Binary string
}

// NewGhostscriptCounter creates a counter with a real command runner.
func NewGhostscriptCounter() *GhostscriptCounter {
	return &GhostscriptCounter{Runner: &ExecRunner{}, Binary: DefaultGhostscriptBinary}
}

// PageCount returns the number of pages of the document at path.
func (c *GhostscriptCounter) PageCount(path string) (int, error) {
	script := fmt.Sprintf("(%s) (r) file runpdfbegin pdfpagecount = quit", path)
	stdout, stderr, err := c.Runner.Run(c.Binary, "-q", "-dNOSAFER", "-dNODISPLAY", "-c", script)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrPageCount, strings.TrimSpace(stderr), err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(stdout))
	if err != nil {
		return 0, fmt.Errorf("%w: unexpected output %q", ErrPageCount, strings.TrimSpace(stdout))
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: non-positive page count %d", ErrPageCount, n)
	}
	return n, nil
}
