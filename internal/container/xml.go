package container

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
)

// DefaultMaxDepth bounds element nesting in a single XML part.
const DefaultMaxDepth = 256

// EventKind identifies the type of an XML event.
type EventKind int

const (
	StartElement EventKind = iota + 1
	EndElement
	CharData
)

func (k EventKind) String() string {
	switch k {
	case StartElement:
		return "start"
	case EndElement:
		return "end"
	case CharData:
		return "chardata"
	default:
		return "unknown"
	}
}

// Event is one item of a forward-only XML event stream.
type Event struct {
	Kind EventKind
	Name xml.Name   // start and end elements
	Attr []xml.Attr // start elements only
	Text []byte     // character data only; valid until the next call to Next
}

// Stream emits start-element, end-element and character-data events in
// document order. Comments, processing instructions and directives are
// dropped.
type Stream struct {
	dec      *xml.Decoder
	depth    int
	maxDepth int
}

// StreamOption configures NewStream.
type StreamOption func(*Stream)

// WithMaxDepth sets the maximum element nesting depth.
func WithMaxDepth(n int) StreamOption {
	return func(s *Stream) {
		if n > 0 {
			s.maxDepth = n
		}
	}
}

// NewStream wraps r in an event stream.
func NewStream(r io.Reader, opts ...StreamOption) *Stream {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	s := &Stream{dec: dec, maxDepth: DefaultMaxDepth}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Next returns the next event, or io.EOF at the end of the document.
// Syntax errors, read errors and excessive nesting wrap ErrMalformed.
func (s *Stream) Next() (Event, error) {
	for {
		tok, err := s.dec.Token()
		if err == io.EOF {
			if s.depth != 0 {
				return Event{}, fmt.Errorf("%w: unexpected end of document", ErrMalformed)
			}
			return Event{}, io.EOF
		}
		if err != nil {
			if errors.Is(err, ErrMalformed) {
				return Event{}, err
			}
			return Event{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			s.depth++
			if s.depth > s.maxDepth {
				return Event{}, fmt.Errorf("%w: nesting depth exceeds %d", ErrMalformed, s.maxDepth)
			}
			return Event{Kind: StartElement, Name: t.Name, Attr: t.Attr}, nil
		case xml.EndElement:
			s.depth--
			return Event{Kind: EndElement, Name: t.Name}, nil
		case xml.CharData:
			return Event{Kind: CharData, Text: t}, nil
		}
	}
}
