package extract

import (
	"bytes"
	"encoding/xml"
	"io"

	"github.com/richardlehane/mscfb"

	"github.com/soochol/textractor/internal/container"
)

const (
	sniffLen        = 8 << 10
	maxManifestSize = 1 << 20
)

type sigKind int

const (
	sigPDF sigKind = iota + 1
	sigZip
	sigCompound
	sigMobi
	sigUTF16
)

// signatures is the leading-byte table that selects the top-level family.
var signatures = []struct {
	offset int
	magic  []byte
	kind   sigKind
}{
	{0, []byte("%PDF-"), sigPDF},
	{0, []byte("PK\x03\x04"), sigZip},
	{0, []byte("PK\x05\x06"), sigZip}, // empty archive
	{0, []byte("PK\x07\x08"), sigZip}, // spanned archive marker
	{0, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, sigCompound},
	{60, []byte("BOOKMOBI"), sigMobi},
	{0, []byte{0xFF, 0xFE}, sigUTF16},
	{0, []byte{0xFE, 0xFF}, sigUTF16},
}

// mainPartTypes maps the content type an OOXML package declares for its
// main part to the package format.
var mainPartTypes = map[string]Format{
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml": FormatDocx,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.template.main+xml": FormatDotx,
	"application/vnd.ms-word.document.macroEnabled.main+xml":                           FormatDocm,
	"application/vnd.ms-word.template.macroEnabledTemplate.main+xml":                   FormatDotm,

	"application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml": FormatPptx,
	"application/vnd.openxmlformats-officedocument.presentationml.template.main+xml":     FormatPotx,
	"application/vnd.openxmlformats-officedocument.presentationml.slideshow.main+xml":    FormatPpsx,
	"application/vnd.ms-powerpoint.presentation.macroEnabled.main+xml":                  FormatPptm,
	"application/vnd.ms-powerpoint.template.macroEnabled.main+xml":                      FormatPotm,
	"application/vnd.ms-powerpoint.slideshow.macroEnabled.main+xml":                     FormatPpsm,
	"application/vnd.ms-powerpoint.addin.macroEnabled.main+xml":                         FormatPpam,

	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml":    FormatXlsx,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.template.main+xml": FormatXltx,
	"application/vnd.ms-excel.sheet.macroEnabled.main+xml":                         FormatXlsm,
	"application/vnd.ms-excel.template.macroEnabled.main+xml":                      FormatXltm,
	"application/vnd.ms-excel.addin.macroEnabled.main+xml":                         FormatXlam,
	"application/vnd.ms-excel.sheet.binary.macroEnabled.main":                      FormatXlsb,
}

// Detect identifies the format of data from its content alone. It never
// fails: empty, truncated or unidentifiable input yields FormatUnrecognized.
func Detect(data []byte) (f Format) {
	defer func() {
		if recover() != nil {
			f = FormatUnrecognized
		}
	}()

	if len(data) == 0 {
		return FormatUnrecognized
	}

	for _, sig := range signatures {
		end := sig.offset + len(sig.magic)
		if len(data) < end || !bytes.Equal(data[sig.offset:end], sig.magic) {
			continue
		}
		switch sig.kind {
		case sigPDF:
			return FormatPDF
		case sigZip:
			return detectZip(data)
		case sigCompound:
			return detectCompound(data)
		case sigMobi:
			return FormatMobi
		case sigUTF16:
			return FormatPlainText
		}
	}

	if looksLikeText(data) {
		return FormatPlainText
	}
	return FormatUnrecognized
}

type contentTypes struct {
	Overrides []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

// detectZip disambiguates the OOXML family by the package manifest. The
// word, spreadsheet and presentation formats share a ZIP signature, so only
// the declared main-part content type can tell them apart.
func detectZip(data []byte) Format {
	a, err := container.OpenZip(data, container.WithMaxEntryBytes(maxManifestSize))
	if err != nil {
		return FormatUnrecognized
	}

	if a.Has("[Content_Types].xml") {
		raw, err := a.ReadFile("[Content_Types].xml")
		if err != nil {
			return FormatUnrecognized
		}
		var ct contentTypes
		if err := xml.Unmarshal(raw, &ct); err != nil {
			return FormatUnrecognized
		}
		for _, o := range ct.Overrides {
			if f, ok := mainPartTypes[o.ContentType]; ok {
				return f
			}
		}
		return FormatZip
	}

	if a.Has("mimetype") {
		mt, err := a.ReadFile("mimetype")
		if err == nil && string(bytes.TrimSpace(mt)) == FormatEpub.MIME() {
			return FormatEpub
		}
	}
	return FormatZip
}

// detectCompound identifies legacy Office files by the streams stored in the
// compound file directory.
func detectCompound(data []byte) Format {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return FormatUnrecognized
	}
	for {
		entry, err := doc.Next()
		if err == io.EOF {
			return FormatCompound
		}
		if err != nil {
			return FormatUnrecognized
		}
		switch entry.Name {
		case "WordDocument":
			return FormatDoc
		case "Workbook", "Book":
			return FormatXls
		case "PowerPoint Document":
			return FormatPpt
		}
	}
}

// looksLikeText accepts input without NUL bytes whose leading window is
// mostly printable. Invalid UTF-8 is tolerated since the plain-text
// extractor decodes lossily.
func looksLikeText(data []byte) bool {
	if len(data) > sniffLen {
		data = data[:sniffLen]
	}
	control := 0
	for _, b := range data {
		switch {
		case b == 0:
			return false
		case b == '\t', b == '\n', b == '\r', b == '\f', b == '\b', b == 0x1b:
		case b < 0x20, b == 0x7f:
			control++
		}
	}
	return control*10 <= len(data)
}
