package pdfcompose

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avern/go-pdfcompose/internal/fileutil"
	"github.com/avern/go-pdfcompose/internal/imageprobe"
)

// DefaultOutputSuffix is appended to the first input file name when no
// output path is given.
const DefaultOutputSuffix = "_composed"

// DefaultDebugDir is the debug workspace directory name, created under
// the current working directory when debug mode is active.
const DefaultDebugDir = "temp"

// Service orchestrates a composition run: classify inputs, build the
// plan, render it, drive the engine, and copy the result out.
type Service struct {
	counter  PageCounter
	engine   *Engine
	progress io.Writer
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithPageCounter replaces the page-count introspection backend.
func WithPageCounter(c PageCounter) Option {
	return func(s *Service) { s.counter = c }
}

// WithEngine replaces the typesetting engine driver.
func WithEngine(e *Engine) Option {
	return func(s *Service) { s.engine = e }
}

// WithProgress directs verbose progress output to w.
func WithProgress(w io.Writer) Option {
	return func(s *Service) { s.progress = w }
}

// WithClock injects the time source used by overlay templates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service with production defaults: Ghostscript page
// counting and a real pdflatex engine.
func New(opts ...Option) *Service {
	s := &Service{
		counter:  NewGhostscriptCounter(),
		engine:   NewEngine(),
		progress: io.Discard,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComposeInput carries one full composition request.
type ComposeInput struct {
	Inputs       []string // input files, already in final order
	OutputPath   string   // empty: first input name + OutputSuffix
	OutputSuffix string   // empty: DefaultOutputSuffix
	Overwrite    bool

	Paper    string // e.g. "a4paper"; empty fits the source page size
	Geometry GeometryConfig
	Custom   string // extra raw pdfpages options

	// At most one of Pages, SwapPages and RotatePages may be set.
	Pages       string
	SwapPages   string
	RotatePages string

	Texts []OverlayConfig

	WhitePage    bool
	LastPageEven bool
	Clip         bool
	Landscape    bool
	Frame        bool

	Debug     bool
	DebugDir  string // empty: DefaultDebugDir
	NoCompile bool   // write the markup and stop; implies Debug
}

// Compose runs the full pipeline. Any fatal error aborts the run with
// the original working directory restored.
func (s *Service) Compose(in ComposeInput) error {
	pdfs, images, err := s.classifyInputs(in.Inputs)
	if err != nil {
		return err
	}

	outputPath, err := resolveOutputPath(in, pdfs, images)
	if err != nil {
		return err
	}

	plan, err := s.buildPlan(in, pdfs, images)
	if err != nil {
		return err
	}

	debug := in.Debug || in.NoCompile
	debugDir := in.DebugDir
	if debugDir == "" {
		debugDir = DefaultDebugDir
	}
	ws, err := OpenWorkspace(debug, debugDir)
	if err != nil {
		return err
	}
	defer func() { _ = ws.Close() }()

	markup := Render(plan)
	if err := os.WriteFile(ws.Path(texFile), []byte(markup), 0o600); err != nil {
		return fmt.Errorf("writing markup: %w", err)
	}
	if in.NoCompile {
		fmt.Fprintf(s.progress, "Markup written to %s, compilation skipped\n", ws.Path(texFile))
		return nil
	}

	if err := s.engine.Compile(ws, debug); err != nil {
		return err
	}

	if err := copyFile(ws.Path(pdfFile), outputPath); err != nil {
		return err
	}
	fmt.Fprintf(s.progress, "Created %s\n", outputPath)
	return nil
}

// buildPlan turns the request into a composition plan without touching
// the workspace or the engine.
func (s *Service) buildPlan(in ComposeInput, pdfs, images []*InputDocument) (*CompositionPlan, error) {
	directive, err := selectDirective(in)
	if err != nil {
		return nil, err
	}

	// A zero-value config means the caller wants the defaults: the
	// CLI fills them from flags, library callers often leave the
	// field unset.
	gcfg := in.Geometry
	if gcfg == (GeometryConfig{}) {
		gcfg = DefaultGeometryConfig()
	}
	gcfg.Landscape = in.Landscape
	geometry, err := ResolveGeometry(gcfg)
	if err != nil {
		return nil, err
	}

	overlays, err := s.resolveOverlays(in, pdfs, images)
	if err != nil {
		return nil, err
	}

	merger := NewMerger(s.counter)
	return merger.Merge(MergeInput{
		Documents: pdfs,
		Images:    images,
		Directive: directive,
		Geometry:  geometry,
		Overlays:  overlays,
		Decor: Decorations{
			WhitePage:    in.WhitePage,
			LastPageEven: in.LastPageEven,
		},
		Paper:    in.Paper,
		Booleans: booleanOptions(in),
		Custom:   in.Custom,
	})
}

// classifyInputs resolves, validates, and classifies the input files
// into the closed PDF/image variant. Image headers are decoded to
// catch unreadable files before any engine work is wasted.
func (s *Service) classifyInputs(inputs []string) (pdfs, images []*InputDocument, err error) {
	if len(inputs) == 0 {
		return nil, nil, ErrNoInput
	}
	for _, input := range inputs {
		if !fileutil.FileExists(input) {
			return nil, nil, fmt.Errorf("%w: %q", ErrInputNotFound, input)
		}
		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, nil, fmt.Errorf("resolving %q: %w", input, err)
		}
		kind, err := ClassifyFile(abs)
		if err != nil {
			return nil, nil, err
		}
		doc := &InputDocument{Path: abs, Kind: kind}
		switch kind {
		case KindPDF:
			fmt.Fprintf(s.progress, "Adding PDF file: %q\n", input)
			pdfs = append(pdfs, doc)
		case KindImage:
			format, w, h, err := imageprobe.Probe(abs)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %q: %v", ErrUnreadableInput, input, err)
			}
			fmt.Fprintf(s.progress, "Adding image file: %q (%s, %dx%d)\n", input, format, w, h)
			images = append(images, doc)
		}
	}
	return pdfs, images, nil
}

// selectDirective enforces mutual exclusivity and parses the active
// page directive. With nothing set, the default page spec selects the
// whole document.
func selectDirective(in ComposeInput) (Directive, error) {
	set := 0
	for _, v := range []string{in.Pages, in.SwapPages, in.RotatePages} {
		if v != "" {
			set++
		}
	}
	if set > 1 {
		return nil, ErrConflictingSpec
	}
	switch {
	case in.SwapPages != "":
		return ParseSwapSpec(in.SwapPages)
	case in.RotatePages != "":
		return ParseRotateSpec(in.RotatePages)
	}
	return ParsePageSpec(in.Pages)
}

// resolveOverlays resolves all text overlays once per run; they attach
// to every instruction regardless of which document owns the page.
// $filename refers to the first input document.
func (s *Service) resolveOverlays(in ComposeInput, pdfs, images []*InputDocument) ([]TextOverlay, error) {
	if len(in.Texts) == 0 {
		return nil, nil
	}
	ctx := OverlayContext{
		Now:         s.now(),
		PageMarker:  `\thepage`,
		PagesMarker: `\pageref{LastPage}`,
	}
	if len(pdfs) > 0 {
		ctx.Filename = pdfs[0].BaseName()
	} else if len(images) > 0 {
		ctx.Filename = images[0].BaseName()
	}

	overlays := make([]TextOverlay, 0, len(in.Texts))
	for _, cfg := range in.Texts {
		o, err := ResolveOverlay(cfg, ctx, in.Landscape)
		if err != nil {
			return nil, err
		}
		overlays = append(overlays, o)
	}
	return overlays, nil
}

// booleanOptions assembles the pdfpages boolean options. Without an
// explicit paper size the output page fits the source page.
func booleanOptions(in ComposeInput) []string {
	var opts []string
	if in.Paper == "" {
		opts = append(opts, "fitpaper")
	}
	if in.Landscape {
		opts = append(opts, "landscape")
	}
	if in.Clip {
		opts = append(opts, "clip")
	}
	if in.Frame {
		opts = append(opts, "frame")
	}
	return opts
}

// resolveOutputPath derives and checks the output file path. An
// existing output without Overwrite is fatal; with Overwrite the stale
// file is removed up front.
func resolveOutputPath(in ComposeInput, pdfs, images []*InputDocument) (string, error) {
	path := in.OutputPath
	if path == "" {
		suffix := in.OutputSuffix
		if suffix == "" {
			suffix = DefaultOutputSuffix
		}
		first := ""
		if len(pdfs) > 0 {
			first = pdfs[0].Path
		} else if len(images) > 0 {
			first = images[0].Path
		}
		path = strings.TrimSuffix(first, filepath.Ext(first)) + suffix + ".pdf"
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving output path: %w", err)
	}
	if fileutil.FileExists(abs) {
		if !in.Overwrite {
			return "", fmt.Errorf("%w: %s (use --overwrite to replace it)", ErrOutputExists, abs)
		}
		if err := os.Remove(abs); err != nil {
			return "", fmt.Errorf("removing existing output: %w", err)
		}
	}
	return abs, nil
}

// copyFile copies the compiled result out of the workspace.
func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- src is workspace-owned
	if err != nil {
		return fmt.Errorf("opening result: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst) // #nosec G304 -- dst is the user-chosen output
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying output: %w", err)
	}
	return out.Close()
}
