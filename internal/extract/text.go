package extract

import (
	"bytes"

	"golang.org/x/text/encoding/unicode"
)

// PlainText decodes the buffer as UTF-8, replacing invalid bytes with
// U+FFFD. Buffers starting with a UTF-16 byte order mark are decoded as
// UTF-16. It never fails.
type PlainText struct{}

func (PlainText) Extract(data []byte) (string, error) {
	if bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF}) {
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		if out, err := dec.Bytes(data); err == nil {
			return string(out), nil
		}
	}
	out, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		return string(bytes.ToValidUTF8(data, []byte("\uFFFD"))), nil
	}
	return string(out), nil
}
