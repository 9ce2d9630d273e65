package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	pdfcompose "github.com/avern/go-pdfcompose"
	"github.com/avern/go-pdfcompose/internal/fileutil"
	"github.com/avern/go-pdfcompose/internal/natsort"
)

// runCompose is the default command: parse flags, gather inputs, and
// run the composition service.
func runCompose(args []string, env *Environment) int {
	var flags composeFlags
	fset := newComposeFlagSet(&flags)
	fset.SetOutput(env.Stderr)

	if len(args) == 0 {
		fmt.Fprintln(env.Stderr, "Usage of pdfcompose:")
		fmt.Fprint(env.Stderr, fset.FlagUsages())
		return ExitFailure
	}
	if err := fset.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitFailure
	}
	if err := validateComposeFlags(&flags); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitFailure
	}

	cfg := DefaultConfig()
	if flags.common.config != "" {
		loaded, err := LoadConfig(flags.common.config)
		if err != nil {
			fmt.Fprintln(env.Stderr, err)
			return ExitFailure
		}
		cfg = loaded
	}

	input, err := buildComposeInput(&flags, cfg)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitFailure
	}

	progress := io.Discard
	if flags.common.verbose {
		progress = env.Stderr
	}
	counter := pdfcompose.NewGhostscriptCounter()
	counter.Runner = env.Runner
	counter.Binary = cfg.Engine.Ghostscript
	engine := pdfcompose.NewEngine()
	engine.Runner = env.Runner
	engine.Binary = cfg.Engine.Latex

	svc := pdfcompose.New(
		pdfcompose.WithPageCounter(counter),
		pdfcompose.WithEngine(engine),
		pdfcompose.WithProgress(progress),
		pdfcompose.WithClock(env.Now),
	)
	if err := svc.Compose(*input); err != nil {
		fmt.Fprintln(env.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// buildComposeInput merges flags over config defaults into a service
// request.
func buildComposeInput(flags *composeFlags, cfg *Config) (*pdfcompose.ComposeInput, error) {
	natural := cfg.Sorting.Natural || flags.input.naturalSort
	inputs, err := gatherInputs(flags.input.files, flags.input.dirs, natural)
	if err != nil {
		return nil, err
	}

	texts, err := parseTextFlags(flags.text.texts)
	if err != nil {
		return nil, err
	}

	suffix := cfg.Output.Suffix
	if flags.output.outSuffix != "" {
		suffix = flags.output.outSuffix
	}
	paper := cfg.Layout.Paper
	if flags.layout.paper != "" {
		paper = flags.layout.paper
	}
	debugDir := cfg.Debug.Folder
	if flags.debug.folder != "" {
		debugDir = flags.debug.folder
	}
	// Naming a debug folder implies debug mode, like --debug-no-compile.
	debug := flags.debug.debug || flags.debug.noCompile || flags.debug.folder != ""

	return &pdfcompose.ComposeInput{
		Inputs:       inputs,
		OutputPath:   flags.output.output,
		OutputSuffix: suffix,
		Overwrite:    flags.output.overwrite || cfg.Output.Overwrite,
		Paper:        paper,
		Geometry: pdfcompose.GeometryConfig{
			Scale:  flags.layout.scale,
			Width:  flags.layout.width,
			Height: flags.layout.height,
			NUp:    [2]int{flags.layout.nup[0], flags.layout.nup[1]},
			Offset: [2]string{flags.layout.offset[0], flags.layout.offset[1]},
			Delta:  [2]string{flags.layout.delta[0], flags.layout.delta[1]},
			Trim: [4]string{
				flags.layout.trim[0], flags.layout.trim[1],
				flags.layout.trim[2], flags.layout.trim[3],
			},
		},
		Custom:       flags.layout.custom,
		Pages:        flags.page.pages,
		SwapPages:    flags.page.swapPages,
		RotatePages:  flags.page.rotatePages,
		Texts:        texts,
		WhitePage:    flags.page.whitePage,
		LastPageEven: flags.page.lastPageEven,
		Clip:         flags.layout.clip,
		Landscape:    flags.layout.landscape,
		Frame:        flags.layout.frame,
		Debug:        debug,
		DebugDir:     debugDir,
		NoCompile:    flags.debug.noCompile,
	}, nil
}

// gatherInputs combines explicit files with directory walks. Files
// inside each directory are merged in sorted order, plain or natural.
func gatherInputs(files, dirs []string, natural bool) ([]string, error) {
	inputs := make([]string, 0, len(files))
	inputs = append(inputs, files...)

	for _, dir := range dirs {
		if !fileutil.DirExists(dir) {
			return nil, fmt.Errorf("%w: %q", pdfcompose.ErrNotADirectory, dir)
		}
		var found []string
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %q: %w", dir, err)
		}
		if natural {
			natsort.Sort(found)
		} else {
			sort.Strings(found)
		}
		inputs = append(inputs, found...)
	}
	return inputs, nil
}

// parseTextFlags parses --text values. Each value is
// ANCHOR,HPOS,VPOS,TEXT with the free-form text last, so commas inside
// the text survive.
func parseTextFlags(values []string) ([]pdfcompose.OverlayConfig, error) {
	var out []pdfcompose.OverlayConfig
	for _, v := range values {
		parts := strings.SplitN(v, ",", 4)
		if len(parts) != 4 {
			return nil, fmt.Errorf("--text wants ANCHOR,HPOS,VPOS,TEXT, got %q", v)
		}
		hpos, errH := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		vpos, errV := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if errH != nil || errV != nil {
			return nil, fmt.Errorf("--text positions must be numbers in [0,1], got %q", v)
		}
		out = append(out, pdfcompose.OverlayConfig{
			Text:   parts[3],
			Anchor: strings.TrimSpace(parts[0]),
			HPos:   hpos,
			VPos:   vpos,
		})
	}
	return out, nil
}
