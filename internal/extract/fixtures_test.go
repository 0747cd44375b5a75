package extract

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/require"
)

const (
	wordMainType  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	slideMainType = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"

	nsWord    = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsDrawing = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsSlide   = "http://schemas.openxmlformats.org/presentationml/2006/main"
)

// buildZip writes entries in the given order. Each entry is {name, content}.
func buildZip(t *testing.T, entries ...[2]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range entries {
		fw, err := w.Create(e[0])
		require.NoError(t, err)
		_, err = fw.Write([]byte(e[1]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func contentTypesXML(mainPart, mainType string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="` + mainPart + `" ContentType="` + mainType + `"/>` +
		`</Types>`
}

func wordDocumentXML(body string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="` + nsWord + `"><w:body>` + body + `</w:body></w:document>`
}

// buildDocx packages body (the children of <w:body>) as a minimal docx.
func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	return buildZip(t,
		[2]string{"[Content_Types].xml", contentTypesXML("/word/document.xml", wordMainType)},
		[2]string{"word/document.xml", wordDocumentXML(body)},
	)
}

func slideXML(paragraphs string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<p:sld xmlns:a="` + nsDrawing + `" xmlns:p="` + nsSlide + `">` +
		`<p:cSld><p:spTree><p:sp><p:txBody><a:bodyPr/>` + paragraphs +
		`</p:txBody></p:sp></p:spTree></p:cSld></p:sld>`
}

// para renders one DrawingML paragraph with a run per text.
func para(texts ...string) string {
	var sb strings.Builder
	sb.WriteString("<a:p>")
	for _, s := range texts {
		sb.WriteString("<a:r><a:rPr lang=\"en-US\"/><a:t>" + s + "</a:t></a:r>")
	}
	sb.WriteString("</a:p>")
	return sb.String()
}

// buildPptx packages slides, named slide1.xml, slide2.xml and so on, in the
// given order.
func buildPptx(t *testing.T, slides ...string) []byte {
	t.Helper()
	entries := [][2]string{
		{"[Content_Types].xml", contentTypesXML("/ppt/presentation.xml", slideMainType)},
		{"ppt/presentation.xml", `<p:presentation xmlns:p="` + nsSlide + `"/>`},
	}
	for i, s := range slides {
		entries = append(entries, [2]string{fmt.Sprintf("ppt/slides/slide%d.xml", i+1), s})
	}
	return buildZip(t, entries...)
}

// buildTextPDF creates a one-page PDF with valid xref offsets that shows text
// in Helvetica.
func buildTextPDF(text string) []byte {
	escaped := strings.ReplaceAll(text, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, "(", `\(`)
	escaped = strings.ReplaceAll(escaped, ")", `\)`)

	stream := "BT\n/F1 12 Tf\n72 720 Td\n(" + escaped + ") Tj\nET"

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	offsets := make([]int, 6)
	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = b.Len()
	b.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	offsets[3] = b.Len()
	b.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>\nendobj\n")
	offsets[4] = b.Len()
	b.WriteString("4 0 obj\n<< /Length " + strconv.Itoa(len(stream)) + " >>\nstream\n")
	b.WriteString(stream)
	b.WriteString("\nendstream\nendobj\n")
	offsets[5] = b.Len()
	b.WriteString("5 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n")

	xref := b.Len()
	b.WriteString("xref\n0 6\n0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	b.WriteString("trailer\n<< /Size 6 /Root 1 0 R >>\nstartxref\n")
	b.WriteString(strconv.Itoa(xref))
	b.WriteString("\n%%EOF\n")
	return []byte(b.String())
}

// buildCompound writes a version 3 compound file with 512-byte sectors: the
// header, one FAT sector and one directory sector holding the root storage
// and a single empty stream called name.
func buildCompound(name string) []byte {
	const (
		sector     = 512
		endOfChain = 0xFFFFFFFE
		fatSect    = 0xFFFFFFFD
		freeSect   = 0xFFFFFFFF
		noStream   = 0xFFFFFFFF
	)
	buf := make([]byte, 3*sector)
	le := binary.LittleEndian

	h := buf[:sector]
	copy(h, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	le.PutUint16(h[24:], 0x003E)
	le.PutUint16(h[26:], 3)
	le.PutUint16(h[28:], 0xFFFE)
	le.PutUint16(h[30:], 9)
	le.PutUint16(h[32:], 6)
	le.PutUint32(h[44:], 1) // FAT sectors
	le.PutUint32(h[48:], 1) // first directory sector
	le.PutUint32(h[56:], 4096)
	le.PutUint32(h[60:], endOfChain)
	le.PutUint32(h[68:], endOfChain)
	le.PutUint32(h[76:], 0) // FAT lives in sector 0
	for off := 80; off < sector; off += 4 {
		le.PutUint32(h[off:], freeSect)
	}

	fat := buf[sector : 2*sector]
	le.PutUint32(fat[0:], fatSect)
	le.PutUint32(fat[4:], endOfChain)
	for off := 8; off < sector; off += 4 {
		le.PutUint32(fat[off:], freeSect)
	}

	dir := buf[2*sector:]
	entry := func(i int, name string, objectType byte, child uint32) {
		e := dir[i*128 : (i+1)*128]
		units := utf16.Encode([]rune(name))
		for j, u := range units {
			le.PutUint16(e[j*2:], u)
		}
		le.PutUint16(e[64:], uint16((len(units)+1)*2))
		e[66] = objectType
		e[67] = 1 // black
		le.PutUint32(e[68:], noStream)
		le.PutUint32(e[72:], noStream)
		le.PutUint32(e[76:], child)
		le.PutUint32(e[116:], endOfChain)
	}
	entry(0, "Root Entry", 5, 1)
	entry(1, name, 2, noStream)
	return buf
}
