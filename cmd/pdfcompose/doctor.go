package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/avern/go-pdfcompose/internal/fileutil"
)

// latexPackages are the packages the generated markup depends on. The
// doctor probes each one with a minimal compile.
var latexPackages = []string{
	"pdfpages",
	"lastpage",
	"grffile",
	"forloop",
	"fancyhdr",
	"textpos",
	"changepage",
	"graphicx",
}

// minGhostscriptMajor is the oldest supported Ghostscript release.
const minGhostscriptMajor = 9

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status      string          `json:"status"` // "ready" or "errors"
	Latex       latexInfo       `json:"latex"`
	Ghostscript ghostscriptInfo `json:"ghostscript"`
	Errors      []string        `json:"errors,omitempty"`
}

// latexInfo holds typesetting engine detection results.
type latexInfo struct {
	Found    bool          `json:"found"`
	Version  string        `json:"version,omitempty"`
	Packages []packageInfo `json:"packages,omitempty"`
}

// packageInfo is one package probe outcome.
type packageInfo struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
}

// ghostscriptInfo holds introspection tool detection results.
type ghostscriptInfo struct {
	Found   bool   `json:"found"`
	Version string `json:"version,omitempty"`
}

// runDoctorCmd executes the doctor command and returns an exit code:
// 0 when every dependency is usable, 1 otherwise. The probed binaries
// come from the same config a composition run would use.
func runDoctorCmd(args []string, env *Environment) int {
	fset := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fset.SetOutput(env.Stderr)
	jsonOutput := fset.Bool("json", false, "machine-readable output")
	configName := fset.StringP("config", "c", "", "config file name or path")
	if err := fset.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitFailure
	}

	cfg := DefaultConfig()
	if *configName != "" {
		loaded, err := LoadConfig(*configName)
		if err != nil {
			fmt.Fprintln(env.Stderr, err)
			return ExitFailure
		}
		cfg = loaded
	}

	result := runDoctor(env, cfg.Engine)

	if *jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitFailure
	}
	return ExitSuccess
}

// runDoctor performs all dependency checks against the configured
// binaries.
func runDoctor(env *Environment, engine EngineConfig) *doctorResult {
	result := &doctorResult{Status: "ready"}
	checkLatex(result, env, engine.Latex)
	checkGhostscript(result, env, engine.Ghostscript)
	if len(result.Errors) > 0 {
		result.Status = "errors"
	}
	return result
}

// checkLatex detects the typesetting engine and probes every required
// package.
func checkLatex(result *doctorResult, env *Environment, binary string) {
	out, _, err := env.Runner.Run(binary, "--version")
	if err != nil {
		result.Errors = append(result.Errors, binary+" not found; install a LaTeX distribution")
		return
	}
	result.Latex.Found = true
	result.Latex.Version = firstLine(out)

	for _, pkg := range latexPackages {
		found := probeLatexPackage(env, binary, pkg)
		result.Latex.Packages = append(result.Latex.Packages, packageInfo{Name: pkg, Found: found})
		if !found {
			result.Errors = append(result.Errors, fmt.Sprintf("LaTeX package %s is missing", pkg))
		}
	}
}

// probeLatexPackage compiles a one-line document using the package,
// mirroring how a real run will load it.
func probeLatexPackage(env *Environment, binary, pkg string) bool {
	script := "\\documentclass{article}\n\\usepackage{" + pkg + "}\n\\begin{document}\nHello\n\\end{document}\n"
	path, cleanup, err := fileutil.WriteTempFile(script, "tex")
	if err != nil {
		return false
	}
	defer cleanup()

	dir := filepath.Dir(path)
	_, _, err = env.Runner.Run(binary, "--interaction=batchmode", "--output-directory="+dir, path)

	base := strings.TrimSuffix(path, ".tex")
	for _, ext := range []string{".pdf", ".log", ".aux"} {
		_ = os.Remove(base + ext)
	}
	return err == nil
}

// checkGhostscript detects Ghostscript and rejects versions too old to
// expose the page-count operator reliably.
func checkGhostscript(result *doctorResult, env *Environment, binary string) {
	out, _, err := env.Runner.Run(binary, "--version")
	if err != nil {
		result.Errors = append(result.Errors, binary+" not found")
		return
	}
	version := firstLine(out)
	result.Ghostscript.Found = true
	result.Ghostscript.Version = version

	major, _, _ := strings.Cut(version, ".")
	if n, err := strconv.Atoi(major); err != nil || n < minGhostscriptMajor {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Ghostscript %s is too old, version %d or newer is required", version, minGhostscriptMajor))
	}
}

// printDoctorResult writes the human-readable pass/fail list.
func printDoctorResult(w io.Writer, result *doctorResult) {
	if result.Latex.Found {
		fmt.Fprintf(w, "pdflatex: found (%s)\n", result.Latex.Version)
	} else {
		fmt.Fprintln(w, "pdflatex: MISSING")
	}
	for _, pkg := range result.Latex.Packages {
		if pkg.Found {
			fmt.Fprintf(w, "package %s: found\n", pkg.Name)
		} else {
			fmt.Fprintf(w, "package %s: MISSING\n", pkg.Name)
		}
	}
	if result.Ghostscript.Found {
		fmt.Fprintf(w, "ghostscript: found (%s)\n", result.Ghostscript.Version)
	} else {
		fmt.Fprintln(w, "ghostscript: MISSING")
	}
	fmt.Fprintf(w, "status: %s\n", result.Status)
}

// firstLine trims multi-line version banners to their first line.
func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
