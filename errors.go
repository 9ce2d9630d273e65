package pdfcompose

import "errors"

// Sentinel errors for planner and engine operations.
var (
	// Input errors.
	ErrNoInput         = errors.New("no input files given")
	ErrInputNotFound   = errors.New("input file does not exist")
	ErrUnreadableInput = errors.New("input file cannot be read")
	ErrUnknownFileType = errors.New("unrecognized file type")
	ErrNotADirectory   = errors.New("input path is not a directory")
	ErrOutputExists    = errors.New("output file already exists")

	// Directive validation errors.
	ErrBadPageSpec     = errors.New("malformed page spec")
	ErrPageOutOfRange  = errors.New("page number out of range")
	ErrBadSwapSpec     = errors.New("malformed swap spec")
	ErrSwapOverlap     = errors.New("swap pairs share a page")
	ErrSwapOutOfRange  = errors.New("swap page out of range")
	ErrBadRotateSpec   = errors.New("malformed rotate spec")
	ErrRotateMultiDoc  = errors.New("page rotation requires exactly one input PDF")
	ErrConflictingSpec = errors.New("pages, swap-pages and rotate-pages are mutually exclusive")

	// Geometry validation errors.
	ErrBadLength   = errors.New("invalid length token")
	ErrBadGrid     = errors.New("invalid n-up grid")
	ErrBadFraction = errors.New("fraction must be between 0 and 1")

	// Overlay validation errors.
	ErrBadAnchor      = errors.New("invalid text anchor")
	ErrBadPlaceholder = errors.New("unknown placeholder in text template")

	// External tool errors.
	ErrPageCount         = errors.New("page count introspection failed")
	ErrCompileFailed     = errors.New("typesetting engine failed to compile")
	ErrEmptyEngineOutput = errors.New("typesetting engine produced no output")
)
