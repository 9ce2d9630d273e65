package pdfcompose

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// pngPixel is a valid 1x1 PNG file.
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

// ---------------------------------------------------------------------------
// TestSelectDirective - Mutual exclusivity
// ---------------------------------------------------------------------------

func TestSelectDirective(t *testing.T) {
	t.Parallel()

	t.Run("default selects the whole document", func(t *testing.T) {
		t.Parallel()

		d, err := selectDirective(ComposeInput{})
		if err != nil {
			t.Fatalf("selectDirective() error = %v", err)
		}
		if _, ok := d.(*PageSpec); !ok {
			t.Errorf("selectDirective() = %T, want *PageSpec", d)
		}
	})

	t.Run("swap and rotate parse into their specs", func(t *testing.T) {
		t.Parallel()

		d, err := selectDirective(ComposeInput{SwapPages: "1,2"})
		if err != nil {
			t.Fatalf("selectDirective() error = %v", err)
		}
		if _, ok := d.(*SwapSpec); !ok {
			t.Errorf("selectDirective() = %T, want *SwapSpec", d)
		}

		d, err = selectDirective(ComposeInput{RotatePages: "1=90"})
		if err != nil {
			t.Fatalf("selectDirective() error = %v", err)
		}
		if _, ok := d.(*RotateSpec); !ok {
			t.Errorf("selectDirective() = %T, want *RotateSpec", d)
		}
	})

	conflicts := []ComposeInput{
		{Pages: "1", SwapPages: "1,2"},
		{Pages: "1", RotatePages: "1=90"},
		{SwapPages: "1,2", RotatePages: "1=90"},
		{Pages: "1", SwapPages: "1,2", RotatePages: "1=90"},
	}
	for _, in := range conflicts {
		if _, err := selectDirective(in); !errors.Is(err, ErrConflictingSpec) {
			t.Errorf("selectDirective(%+v) error = %v, want ErrConflictingSpec", in, err)
		}
	}
}

// ---------------------------------------------------------------------------
// TestBuildPlan
// ---------------------------------------------------------------------------

func TestBuildPlanDefaultsZeroGeometry(t *testing.T) {
	t.Parallel()

	s := New(WithPageCounter(&countingCounter{counts: map[string]int{"/a.pdf": 2}}))
	plan, err := s.buildPlan(ComposeInput{}, docs("/a.pdf"), nil)
	if err != nil {
		t.Fatalf("buildPlan() with a zero-value geometry config: error = %v", err)
	}
	g := plan.Geometry
	if g.Rows != 1 || g.Cols != 1 {
		t.Errorf("grid = %dx%d, want 1x1", g.Rows, g.Cols)
	}
	if g.HasTrim || g.HasDelta() || g.HasOffset() || g.Tiled() {
		t.Errorf("zero-value geometry did not resolve neutrally: %+v", g)
	}
}

// ---------------------------------------------------------------------------
// TestClassifyInputs
// ---------------------------------------------------------------------------

func TestClassifyInputs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pdf := writeInput(t, dir, "doc.pdf", "%PDF-1.4")
	png := filepath.Join(dir, "scan.png")
	if err := os.WriteFile(png, pngPixel, 0o600); err != nil {
		t.Fatalf("writing png: %v", err)
	}

	var progress bytes.Buffer
	s := New(WithProgress(&progress))

	pdfs, images, err := s.classifyInputs([]string{pdf, png})
	if err != nil {
		t.Fatalf("classifyInputs() error = %v", err)
	}
	if len(pdfs) != 1 || len(images) != 1 {
		t.Fatalf("classifyInputs() = %d pdfs, %d images, want 1 and 1", len(pdfs), len(images))
	}
	if pdfs[0].Kind != KindPDF || images[0].Kind != KindImage {
		t.Errorf("kinds = %v, %v", pdfs[0].Kind, images[0].Kind)
	}
	if !strings.Contains(progress.String(), "Adding PDF file") {
		t.Error("progress output missing the PDF line")
	}

	t.Run("no inputs", func(t *testing.T) {
		t.Parallel()

		if _, _, err := s.classifyInputs(nil); !errors.Is(err, ErrNoInput) {
			t.Errorf("classifyInputs(nil) error = %v, want ErrNoInput", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := s.classifyInputs([]string{filepath.Join(dir, "absent.pdf")})
		if !errors.Is(err, ErrInputNotFound) {
			t.Errorf("classifyInputs() error = %v, want ErrInputNotFound", err)
		}
	})

	t.Run("unknown extension", func(t *testing.T) {
		t.Parallel()

		txt := writeInput(t, dir, "notes.txt", "hello")
		if _, _, err := s.classifyInputs([]string{txt}); !errors.Is(err, ErrUnknownFileType) {
			t.Errorf("classifyInputs() error = %v, want ErrUnknownFileType", err)
		}
	})

	t.Run("corrupt image", func(t *testing.T) {
		t.Parallel()

		bad := writeInput(t, dir, "broken.png", "not a png")
		if _, _, err := s.classifyInputs([]string{bad}); !errors.Is(err, ErrUnreadableInput) {
			t.Errorf("classifyInputs() error = %v, want ErrUnreadableInput", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := &InputDocument{Path: filepath.Join(dir, "report.pdf"), Kind: KindPDF}

	t.Run("derived from the first input", func(t *testing.T) {
		t.Parallel()

		got, err := resolveOutputPath(ComposeInput{}, []*InputDocument{first}, nil)
		if err != nil {
			t.Fatalf("resolveOutputPath() error = %v", err)
		}
		if want := filepath.Join(dir, "report_composed.pdf"); got != want {
			t.Errorf("resolveOutputPath() = %s, want %s", got, want)
		}
	})

	t.Run("custom suffix", func(t *testing.T) {
		t.Parallel()

		in := ComposeInput{OutputSuffix: "_v2"}
		got, err := resolveOutputPath(in, []*InputDocument{first}, nil)
		if err != nil {
			t.Fatalf("resolveOutputPath() error = %v", err)
		}
		if want := filepath.Join(dir, "report_v2.pdf"); got != want {
			t.Errorf("resolveOutputPath() = %s, want %s", got, want)
		}
	})

	t.Run("existing output without overwrite", func(t *testing.T) {
		t.Parallel()

		existing := writeInput(t, dir, "taken.pdf", "old")
		_, err := resolveOutputPath(ComposeInput{OutputPath: existing}, []*InputDocument{first}, nil)
		if !errors.Is(err, ErrOutputExists) {
			t.Errorf("resolveOutputPath() error = %v, want ErrOutputExists", err)
		}
	})

	t.Run("overwrite removes the stale file", func(t *testing.T) {
		t.Parallel()

		stale := writeInput(t, dir, "stale.pdf", "old")
		in := ComposeInput{OutputPath: stale, Overwrite: true}
		got, err := resolveOutputPath(in, []*InputDocument{first}, nil)
		if err != nil {
			t.Fatalf("resolveOutputPath() error = %v", err)
		}
		if got != stale {
			t.Errorf("resolveOutputPath() = %s, want %s", got, stale)
		}
		if _, err := os.Stat(stale); !os.IsNotExist(err) {
			t.Error("stale output was not removed")
		}
	})
}

// ---------------------------------------------------------------------------
// TestCompose - End to end with a scripted engine. Not parallel: the
// run enters and leaves a workspace directory.
// ---------------------------------------------------------------------------

func TestCompose(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "doc.pdf", "%PDF-1.4")

	engineRunner := &fakeRunner{handler: func(int, string, []string) (string, string, error) {
		// The engine runs inside the workspace, so the output lands in
		// the working directory.
		if err := os.WriteFile(pdfFile, []byte("%PDF result"), 0o600); err != nil {
			return "", "", err
		}
		return "", "", nil
	}}
	counter := &countingCounter{counts: map[string]int{input: 3}}

	var progress bytes.Buffer
	s := New(
		WithPageCounter(counter),
		WithEngine(&Engine{Runner: engineRunner, Binary: "pdflatex"}),
		WithProgress(&progress),
		WithClock(func() time.Time {
			return time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
		}),
	)

	output := filepath.Join(dir, "out.pdf")
	err := s.Compose(ComposeInput{
		Inputs:     []string{input},
		OutputPath: output,
		Texts: []OverlayConfig{
			{Text: "$day/$month/$year", Anchor: AnchorBottomMiddle, HPos: 0.5, VPos: 0.95},
		},
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "%PDF result" {
		t.Errorf("output content = %q", data)
	}
	if len(engineRunner.calls) != 2 {
		t.Errorf("engine invoked %d times, want 2", len(engineRunner.calls))
	}
	if !strings.Contains(progress.String(), "Created "+output) {
		t.Errorf("progress output %q missing the creation line", progress.String())
	}
}

func TestComposeNoCompile(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir, "doc.pdf", "%PDF-1.4")

	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(prev) })

	engineRunner := &fakeRunner{handler: func(int, string, []string) (string, string, error) {
		return "", "", nil
	}}
	s := New(
		WithPageCounter(&countingCounter{counts: map[string]int{input: 1}}),
		WithEngine(&Engine{Runner: engineRunner, Binary: "pdflatex"}),
	)

	err = s.Compose(ComposeInput{
		Inputs:    []string{input},
		NoCompile: true,
		DebugDir:  "work",
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if len(engineRunner.calls) != 0 {
		t.Errorf("engine invoked %d times, want 0", len(engineRunner.calls))
	}

	markup, err := os.ReadFile(filepath.Join(dir, "work", texFile))
	if err != nil {
		t.Fatalf("reading markup: %v", err)
	}
	if !strings.Contains(string(markup), `\includepdf`) {
		t.Error("markup has no inclusion command")
	}
}
