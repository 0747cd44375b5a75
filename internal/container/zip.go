// Package container reads the outer envelopes of office documents: ZIP
// archives and the XML parts stored inside them.
package container

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// DefaultMaxEntryBytes bounds the decompressed size of a single archive entry.
const DefaultMaxEntryBytes = 64 << 20 // 64MB

var (
	// ErrMalformed marks any structural failure of a container: unreadable
	// archive, missing part, corrupt entry data or ill-formed XML.
	ErrMalformed = errors.New("malformed container")

	// ErrEntryTooLarge is returned when an entry decompresses past the limit.
	ErrEntryTooLarge = errors.New("archive entry exceeds size limit")
)

// Archive is a read-only view over an in-memory ZIP archive.
type Archive struct {
	zr       *zip.Reader
	maxEntry int64
}

// ZipOption configures OpenZip.
type ZipOption func(*Archive)

// WithMaxEntryBytes sets the decompressed size limit per entry.
func WithMaxEntryBytes(n int64) ZipOption {
	return func(a *Archive) {
		if n > 0 {
			a.maxEntry = n
		}
	}
}

// OpenZip reads the central directory of data.
func OpenZip(data []byte, opts ...ZipOption) (*Archive, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: open zip: %v", ErrMalformed, err)
	}
	a := &Archive{zr: zr, maxEntry: DefaultMaxEntryBytes}
	for _, o := range opts {
		o(a)
	}
	return a, nil
}

// Has reports whether the archive contains an entry called name.
func (a *Archive) Has(name string) bool {
	return a.lookup(name) != nil
}

// Files returns the entries accepted by match, in archive enumeration order.
// That order is whatever the archive's central directory records; it is not
// sorted.
func (a *Archive) Files(match func(name string) bool) []string {
	var names []string
	for _, f := range a.zr.File {
		if match(f.Name) {
			names = append(names, f.Name)
		}
	}
	return names
}

// Open returns a reader over the decompressed content of name. Reads fail with
// ErrEntryTooLarge once the entry exceeds the configured limit, and any
// decompression or checksum failure is reported as ErrMalformed.
func (a *Archive) Open(name string) (io.ReadCloser, error) {
	f := a.lookup(name)
	if f == nil {
		return nil, fmt.Errorf("%w: %s not found in archive", ErrMalformed, name)
	}
	if f.UncompressedSize64 > uint64(a.maxEntry) {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformed, name, ErrEntryTooLarge)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrMalformed, name, err)
	}
	return &entryReader{name: name, rc: rc, remaining: a.maxEntry}, nil
}

// ReadFile returns the full decompressed content of name.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	rc, err := a.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (a *Archive) lookup(name string) *zip.File {
	for _, f := range a.zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// entryReader enforces the size limit on the actual decompressed stream,
// since the sizes recorded in the directory are attacker-controlled.
type entryReader struct {
	name      string
	rc        io.ReadCloser
	remaining int64
}

func (r *entryReader) Read(p []byte) (int, error) {
	if r.remaining <= 0 {
		// Probe one byte: a stream that ends exactly at the limit is fine.
		var probe [1]byte
		n, err := r.rc.Read(probe[:])
		if n > 0 {
			return 0, fmt.Errorf("%w: %s: %w", ErrMalformed, r.name, ErrEntryTooLarge)
		}
		return 0, r.wrap(err)
	}
	if int64(len(p)) > r.remaining {
		p = p[:r.remaining]
	}
	n, err := r.rc.Read(p)
	r.remaining -= int64(n)
	return n, r.wrap(err)
}

func (r *entryReader) wrap(err error) error {
	if err == nil || err == io.EOF {
		return err
	}
	return fmt.Errorf("%w: read %s: %v", ErrMalformed, r.name, err)
}

func (r *entryReader) Close() error {
	return r.rc.Close()
}
