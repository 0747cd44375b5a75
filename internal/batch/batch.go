// Package batch runs detection and extraction over the parts of one upload
// and keeps one result per part, in upload order.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/soochol/textractor/internal/extract"
)

// Part is one uploaded file as received from the transport. Err is set when
// the bytes could not be read; Data is then ignored.
type Part struct {
	FieldName   string
	FileName    string
	ContentType string
	Data        []byte
	Err         error
}

// Entry is the result for one Part. Elapsed is zero when the part failed
// before extraction began.
type Entry struct {
	FieldName   string
	FileName    string
	ContentType string
	Outcome     extract.Outcome
	Elapsed     time.Duration
}

// Extractor is the detection plus dispatch step the aggregator drives.
// *extract.Dispatcher satisfies it.
type Extractor interface {
	Extract(data []byte) extract.Outcome
}

// Aggregator fans a batch out to an Extractor. Outcomes never abort sibling
// parts; nothing is retried.
type Aggregator struct {
	ext     Extractor
	workers int
	logger  *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithWorkers bounds how many parts are extracted concurrently. Values below
// two keep the batch sequential.
func WithWorkers(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.workers = n
		}
	}
}

// WithLogger sets the logger used for per-part records.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// New creates an Aggregator around ext.
func New(ext Extractor, opts ...Option) *Aggregator {
	a := &Aggregator{ext: ext, workers: 1, logger: slog.Default()}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Run extracts every part and returns one entry per part in input order.
// Parts not yet started when ctx is cancelled are reported as unreadable.
func (a *Aggregator) Run(ctx context.Context, parts []Part) []Entry {
	entries := make([]Entry, len(parts))

	if a.workers <= 1 {
		for i, p := range parts {
			entries[i] = a.runOne(ctx, p)
		}
		return entries
	}

	var g errgroup.Group
	g.SetLimit(a.workers)
	for i, p := range parts {
		g.Go(func() error {
			entries[i] = a.runOne(ctx, p)
			return nil
		})
	}
	_ = g.Wait() // outcomes are carried in entries
	return entries
}

func (a *Aggregator) runOne(ctx context.Context, p Part) Entry {
	e := Entry{FieldName: p.FieldName, FileName: p.FileName, ContentType: p.ContentType}

	readErr := p.Err
	if readErr == nil {
		readErr = ctx.Err()
	}
	if readErr != nil {
		e.Outcome = extract.Failed(extract.FormatUnrecognized, extract.KindUnreadableInput,
			fmt.Errorf("read part %q: %w", p.FileName, readErr))
		a.log(e)
		return e
	}

	start := time.Now()
	e.Outcome = a.ext.Extract(p.Data)
	e.Elapsed = time.Since(start)
	a.log(e)
	return e
}

func (a *Aggregator) log(e Entry) {
	attrs := []any{
		"file", e.FileName,
		"format", e.Outcome.Format,
		"status", e.Outcome.Status,
		"duration", e.Elapsed,
	}
	switch e.Outcome.Status {
	case extract.StatusFailed:
		a.logger.Warn("extraction failed", append(attrs, "error_kind", e.Outcome.Reason(), "error", e.Outcome.Err)...)
	case extract.StatusUnsupported:
		a.logger.Info("unsupported file", append(attrs, "error_kind", e.Outcome.Reason())...)
	default:
		a.logger.Info("file extracted", append(attrs, "chars", len(e.Outcome.Text))...)
	}
}
