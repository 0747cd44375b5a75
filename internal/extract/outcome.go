package extract

import (
	"errors"
	"fmt"
)

// Status is the state of an Outcome. Exactly one holds per extraction.
type Status string

const (
	StatusExtracted   Status = "extracted"
	StatusUnsupported Status = "unsupported"
	StatusFailed      Status = "failed"
)

// ErrorKind classifies why an extraction did not produce text.
type ErrorKind string

const (
	// KindDetectionInconclusive: the input could not be identified.
	// Reported as an unsupported outcome, never as a failure.
	KindDetectionInconclusive ErrorKind = "detection_inconclusive"
	// KindUnsupportedFormat: the format is known but has no extractor.
	KindUnsupportedFormat ErrorKind = "unsupported_format"
	// KindMalformedContainer: the ZIP, XML or package structure is invalid.
	KindMalformedContainer ErrorKind = "malformed_container"
	// KindExtractorInternal: a delegated decoder failed.
	KindExtractorInternal ErrorKind = "extractor_internal"
	// KindUnreadableInput: the bytes never reached the extractor.
	KindUnreadableInput ErrorKind = "unreadable_input"
)

// Error is the failure carried by a failed or unsupported Outcome.
type Error struct {
	Kind   ErrorKind
	Format Format
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (%s)", e.Kind, e.Format)
	}
	return fmt.Sprintf("%s (%s): %v", e.Kind, e.Format, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Outcome is the tri-state result of one extraction.
type Outcome struct {
	Status Status
	Format Format
	Text   string
	Err    *Error
}

// Extracted builds a successful outcome.
func Extracted(f Format, text string) Outcome {
	return Outcome{Status: StatusExtracted, Format: f, Text: text}
}

// Unsupported builds an outcome for a format without a bound extractor.
func Unsupported(f Format) Outcome {
	kind := KindUnsupportedFormat
	if f == FormatUnrecognized {
		kind = KindDetectionInconclusive
	}
	return Outcome{Status: StatusUnsupported, Format: f, Err: &Error{Kind: kind, Format: f}}
}

// Failed builds a failed outcome. If err already is an *Error its kind is
// kept; otherwise kind is used.
func Failed(f Format, kind ErrorKind, err error) Outcome {
	var e *Error
	if errors.As(err, &e) {
		return Outcome{Status: StatusFailed, Format: f, Err: e}
	}
	return Outcome{Status: StatusFailed, Format: f, Err: &Error{Kind: kind, Format: f, Err: err}}
}

// OK reports whether text was extracted.
func (o Outcome) OK() bool {
	return o.Status == StatusExtracted
}

// Reason returns the error kind of an unsupported or failed outcome.
func (o Outcome) Reason() ErrorKind {
	if o.Err == nil {
		return ""
	}
	return o.Err.Kind
}
