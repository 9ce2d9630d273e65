package main

import (
	"fmt"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	verbose bool
}

// inputFlags holds input selection flags.
type inputFlags struct {
	files       []string
	dirs        []string
	naturalSort bool
}

// outputFlags holds output destination flags.
type outputFlags struct {
	output    string
	outSuffix string
	overwrite bool
}

// layoutFlags holds page geometry flags.
type layoutFlags struct {
	paper     string
	scale     float64
	width     float64
	height    float64
	nup       []int
	offset    []string
	delta     []string
	trim      []string
	custom    string
	clip      bool
	landscape bool
	frame     bool
}

// pageFlags holds the mutually exclusive page directives and the
// per-document decorations.
type pageFlags struct {
	pages        string
	swapPages    string
	rotatePages  string
	whitePage    bool
	lastPageEven bool
}

// textFlags holds overlay flags.
type textFlags struct {
	texts []string
}

// debugFlags holds debug toggles.
type debugFlags struct {
	debug     bool
	noCompile bool
	folder    string
}

// composeFlags holds all flags for a composition run.
type composeFlags struct {
	common commonFlags
	input  inputFlags
	output outputFlags
	layout layoutFlags
	page   pageFlags
	text   textFlags
	debug  debugFlags
}

// newComposeFlagSet builds the flag set for the default command.
func newComposeFlagSet(f *composeFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("pdfcompose", flag.ContinueOnError)

	fs.StringVarP(&f.common.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.common.verbose, "verbose", "v", false, "show progress details")

	fs.StringArrayVarP(&f.input.files, "input-file", "f", nil, "input PDF or image file; repeat to merge several")
	fs.StringArrayVarP(&f.input.dirs, "input-dir", "d", nil, "input directory; every file inside is merged in sorted order")
	fs.BoolVar(&f.input.naturalSort, "natural-sorting", false, "sort directory contents with natural number ordering")

	fs.StringVarP(&f.output.output, "output", "o", "", "output file name")
	fs.StringVar(&f.output.outSuffix, "out-suffix", "", "suffix added to the first input name when --output is not given")
	fs.BoolVar(&f.output.overwrite, "overwrite", false, "overwrite the output file if it exists")

	fs.StringVar(&f.layout.paper, "paper", "", "output paper size (a4paper, letterpaper, ...); default fits the input")
	fs.Float64Var(&f.layout.scale, "scale", 0, "scale factor for each logical page; 0 means auto-fit")
	fs.Float64Var(&f.layout.width, "width", 0, "logical page width as a fraction of the output page width")
	fs.Float64Var(&f.layout.height, "height", 0, "logical page height as a fraction of the output page height")
	fs.IntSliceVar(&f.layout.nup, "nup", []int{1, 1}, "n-up grid as ROWS,COLS")
	fs.StringSliceVar(&f.layout.offset, "offset", []string{"0", "0"}, "logical page displacement as RIGHT,TOP lengths; a leading _ negates")
	fs.StringSliceVar(&f.layout.delta, "delta", []string{"0", "0"}, "space between logical pages as X,Y lengths")
	fs.StringSliceVar(&f.layout.trim, "trim", []string{"0", "0", "0", "0"}, "trim box as LEFT,BOTTOM,RIGHT,TOP; fractions of the page or absolute lengths")
	fs.StringVar(&f.layout.custom, "custom", "", "extra raw pdfpages options")
	fs.BoolVar(&f.layout.clip, "clip", false, "physically remove trimmed content instead of hiding it")
	fs.BoolVar(&f.layout.landscape, "landscape", false, "landscape output instead of portrait")
	fs.BoolVar(&f.layout.frame, "frame", false, "draw a frame around every logical page")

	fs.StringVar(&f.page.pages, "pages", "", "pages to insert: numbers, ranges m-n, {} for an empty page (default all)")
	fs.StringVar(&f.page.swapPages, "swap-pages", "", "semicolon-separated page pairs to swap, e.g. \"1,5;6,9\"")
	fs.StringVar(&f.page.rotatePages, "rotate-pages", "", "semicolon-separated page=angle pairs, e.g. \"1=90;2=180\"")
	fs.BoolVar(&f.page.whitePage, "white-page", false, "insert a white page after every source page")
	fs.BoolVar(&f.page.lastPageEven, "last-page-even", false, "pad each document with a white page when its page count is odd")

	fs.StringArrayVarP(&f.text.texts, "text", "t", nil, "text overlay as ANCHOR,HPOS,VPOS,TEXT; see the text-help command")

	fs.BoolVar(&f.debug.debug, "debug", false, "keep the working folder and produce a report on failure")
	fs.BoolVar(&f.debug.noCompile, "debug-no-compile", false, "write the markup file and stop; implies --debug")
	fs.StringVar(&f.debug.folder, "debug-folder", "", "working folder name used in debug mode")

	return fs
}

// validateComposeFlags checks vector flag arities before anything else
// runs.
func validateComposeFlags(f *composeFlags) error {
	if len(f.layout.nup) != 2 {
		return fmt.Errorf("--nup wants ROWS,COLS, got %d values", len(f.layout.nup))
	}
	if len(f.layout.offset) != 2 {
		return fmt.Errorf("--offset wants RIGHT,TOP, got %d values", len(f.layout.offset))
	}
	if len(f.layout.delta) != 2 {
		return fmt.Errorf("--delta wants X,Y, got %d values", len(f.layout.delta))
	}
	if len(f.layout.trim) != 4 {
		return fmt.Errorf("--trim wants LEFT,BOTTOM,RIGHT,TOP, got %d values", len(f.layout.trim))
	}
	return nil
}
