// Package extract detects the format of uploaded documents from their bytes
// and recovers their plain text.
//
// Supported formats:
//   - plain text (lossy UTF-8, UTF-16 with BOM)
//   - PDF (ledongthuc/pdf, with a pdfcpu content-stream fallback)
//   - word-processing OOXML (docx, dotx, docm, dotm)
//   - presentation OOXML (pptx, potx, ppsx, pptm, potm, ppsm, ppam)
//
// Spreadsheets, legacy binary Office files and e-books are detected but
// reported as unsupported.
package extract

import (
	"errors"
	"fmt"

	"github.com/soochol/textractor/internal/container"
)

// Extractor turns the bytes of one document into text.
type Extractor interface {
	Extract(data []byte) (string, error)
}

// Options tunes the container limits and PDF behaviour of a Dispatcher.
type Options struct {
	// MaxEntryBytes bounds the decompressed size of one archive entry.
	MaxEntryBytes int64
	// MaxXMLDepth bounds element nesting in XML parts.
	MaxXMLDepth int
	// PDFFallback retries failed PDFs with the pdfcpu content-stream scanner.
	PDFFallback bool
}

// DefaultOptions returns the limits used by the package-level Extract.
func DefaultOptions() Options {
	return Options{
		MaxEntryBytes: container.DefaultMaxEntryBytes,
		MaxXMLDepth:   container.DefaultMaxDepth,
		PDFFallback:   true,
	}
}

type binding int

const (
	bindNone binding = iota
	bindPlainText
	bindPDF
	bindWord
	bindPresentation
)

// bindings maps every detectable format to its extractor. Adding a format
// means adding a constant in format.go and one line here.
var bindings = map[Format]binding{
	FormatPlainText: bindPlainText,
	FormatPDF:       bindPDF,

	FormatDocx: bindWord,
	FormatDotx: bindWord,
	FormatDocm: bindWord,
	FormatDotm: bindWord,

	FormatPptx: bindPresentation,
	FormatPotx: bindPresentation,
	FormatPpsx: bindPresentation,
	FormatPptm: bindPresentation,
	FormatPotm: bindPresentation,
	FormatPpsm: bindPresentation,
	FormatPpam: bindPresentation,

	FormatXlsx: bindNone,
	FormatXltx: bindNone,
	FormatXlsm: bindNone,
	FormatXltm: bindNone,
	FormatXlam: bindNone,
	FormatXlsb: bindNone,

	FormatDoc: bindNone,
	FormatXls: bindNone,
	FormatPpt: bindNone,

	FormatEpub: bindNone,
	FormatMobi: bindNone,

	FormatZip:          bindNone,
	FormatCompound:     bindNone,
	FormatUnrecognized: bindNone,
}

// Supported reports whether f has a bound extractor.
func Supported(f Format) bool {
	return bindings[f] != bindNone
}

// Dispatcher routes a detected format to its extractor. It holds only
// immutable configuration and is safe for concurrent use.
type Dispatcher struct {
	extractors map[binding]Extractor
}

// NewDispatcher builds a Dispatcher with the given limits.
func NewDispatcher(opts Options) *Dispatcher {
	def := DefaultOptions()
	if opts.MaxEntryBytes <= 0 {
		opts.MaxEntryBytes = def.MaxEntryBytes
	}
	if opts.MaxXMLDepth <= 0 {
		opts.MaxXMLDepth = def.MaxXMLDepth
	}
	limits := containerLimits{maxEntry: opts.MaxEntryBytes, maxDepth: opts.MaxXMLDepth}
	return &Dispatcher{
		extractors: map[binding]Extractor{
			bindPlainText:    PlainText{},
			bindPDF:          PDF{Fallback: opts.PDFFallback},
			bindWord:         WordProcessing{limits: limits},
			bindPresentation: Presentation{limits: limits},
		},
	}
}

var defaultDispatcher = NewDispatcher(DefaultOptions())

// Extract detects the format of data and extracts its text with default
// options.
func Extract(data []byte) Outcome {
	return defaultDispatcher.Extract(data)
}

// Extract detects the format of data and dispatches it.
func (d *Dispatcher) Extract(data []byte) Outcome {
	return d.Dispatch(Detect(data), data)
}

// Dispatch runs the extractor bound to format. Formats without an extractor
// yield an unsupported outcome; extractor errors and panics yield a failed
// outcome tagged with format.
func (d *Dispatcher) Dispatch(format Format, data []byte) (out Outcome) {
	ext, ok := d.extractors[bindings[format]]
	if !ok {
		return Unsupported(format)
	}

	defer func() {
		if r := recover(); r != nil {
			out = Failed(format, KindExtractorInternal, fmt.Errorf("extractor panic: %v", r))
		}
	}()

	text, err := ext.Extract(data)
	if err != nil {
		return Failed(format, classify(err), err)
	}
	return Extracted(format, text)
}

func classify(err error) ErrorKind {
	if errors.Is(err, container.ErrMalformed) {
		return KindMalformedContainer
	}
	return KindExtractorInternal
}

type containerLimits struct {
	maxEntry int64
	maxDepth int
}

func (l containerLimits) open(data []byte) (*container.Archive, error) {
	maxEntry := l.maxEntry
	if maxEntry <= 0 {
		maxEntry = container.DefaultMaxEntryBytes
	}
	return container.OpenZip(data, container.WithMaxEntryBytes(maxEntry))
}

func (l containerLimits) streamOpts() []container.StreamOption {
	return []container.StreamOption{container.WithMaxDepth(l.maxDepth)}
}
