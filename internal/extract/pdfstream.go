package extract

import (
	"bytes"
	"encoding/hex"
	"strings"
	"unicode/utf16"
)

// scanContentStream recovers the strings shown by the text operators of a
// PDF content stream: Tj, TJ, ' and ". Positioning operators become
// whitespace. Glyph codes are read as PDFDocEncoding/Latin-1 bytes, or as
// UTF-16BE when a hex string carries a byte order mark; composite fonts
// with custom CMaps are not mapped.
func scanContentStream(data []byte) string {
	var sb strings.Builder
	var operands []string

	space := func(sep byte) {
		if sb.Len() == 0 {
			return
		}
		s := sb.String()
		if last := s[len(s)-1]; last != ' ' && last != '\n' {
			sb.WriteByte(sep)
		}
	}

	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case isPDFSpace(c):
			i++
		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case c == '(':
			s, n := readPDFLiteral(data[i:])
			operands = append(operands, s)
			i += n
		case c == '<' && i+1 < len(data) && data[i+1] == '<':
			i += 2
		case c == '<':
			s, n := readPDFHex(data[i:])
			operands = append(operands, s)
			i += n
		case c == '>', c == ')', c == '[', c == ']', c == '{', c == '}':
			i++
		case c == '/':
			i++
			for i < len(data) && !isPDFSpace(data[i]) && !isPDFDelim(data[i]) {
				i++
			}
		default:
			start := i
			for i < len(data) && !isPDFSpace(data[i]) && !isPDFDelim(data[i]) {
				i++
			}
			tok := string(data[start:i])
			if isPDFNumber(tok) {
				continue
			}
			switch tok {
			case "Tj", "TJ":
				sb.WriteString(strings.Join(operands, ""))
			case "'", `"`:
				space('\n')
				sb.WriteString(strings.Join(operands, ""))
			case "Td", "TD", "Tm":
				space(' ')
			case "T*", "ET":
				space('\n')
			case "ID":
				// Inline image data runs until the EI operator.
				if end := bytes.Index(data[i:], []byte("EI")); end >= 0 {
					i += end + 2
				} else {
					i = len(data)
				}
			}
			operands = operands[:0]
		}
	}
	return strings.TrimSpace(sb.String())
}

func isPDFSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isPDFDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isPDFNumber(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if (r < '0' || r > '9') && r != '.' && r != '-' && r != '+' {
			return false
		}
	}
	return true
}

// readPDFLiteral decodes a parenthesised string starting at data[0] and
// returns it together with the number of bytes consumed.
func readPDFLiteral(data []byte) (string, int) {
	var out []byte
	depth := 0
	i := 0
	for i < len(data) {
		c := data[i]
		switch {
		case c == '(':
			if depth > 0 {
				out = append(out, c)
			}
			depth++
			i++
		case c == ')':
			depth--
			i++
			if depth == 0 {
				return latin1(out), i
			}
			out = append(out, c)
		case c == '\\' && i+1 < len(data):
			i++
			e := data[i]
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r':
				if i+1 < len(data) && data[i+1] == '\n' {
					i++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					val := 0
					n := 0
					for n < 3 && i < len(data) && data[i] >= '0' && data[i] <= '7' {
						val = val*8 + int(data[i]-'0')
						i++
						n++
					}
					out = append(out, byte(val))
					continue
				}
				out = append(out, e)
			}
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return latin1(out), i
}

// readPDFHex decodes a <...> hex string starting at data[0].
func readPDFHex(data []byte) (string, int) {
	end := bytes.IndexByte(data, '>')
	if end < 0 {
		end = len(data) - 1
	}
	var digits []byte
	for _, c := range data[1:max(end, 1)] {
		if !isPDFSpace(c) {
			digits = append(digits, c)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	raw := make([]byte, len(digits)/2)
	if _, err := hex.Decode(raw, digits); err != nil {
		return "", end + 1
	}
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		u := make([]uint16, 0, len(raw)/2)
		for j := 2; j+1 < len(raw); j += 2 {
			u = append(u, uint16(raw[j])<<8|uint16(raw[j+1]))
		}
		return string(utf16.Decode(u)), end + 1
	}
	return latin1(raw), end + 1
}

func latin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
