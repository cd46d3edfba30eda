package md2html

import (
	"errors"

	"github.com/alnah/go-md2html/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrInputTooLarge     = errors.New("markdown input exceeds size limit")
	ErrUnknownEngine     = errors.New("unknown engine")
	ErrInvalidStyle      = errors.New("invalid style")
	ErrConversionTimeout = errors.New("conversion timed out")
	ErrInvalidAssetPath  = errors.New("invalid asset path")

	// Errors raised by the internal pipeline, re-exported for errors.Is.
	ErrHTMLConversion = pipeline.ErrHTMLConversion
	ErrInvalidBaseURL = pipeline.ErrInvalidBaseURL
	ErrPageRender     = pipeline.ErrPageRender
)
