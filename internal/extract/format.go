package extract

// Format identifies a detected document type. The set is closed: Detect only
// ever returns one of the constants below.
type Format string

const (
	FormatPlainText Format = "txt"
	FormatPDF       Format = "pdf"

	// Word-processing (OOXML).
	FormatDocx Format = "docx"
	FormatDotx Format = "dotx"
	FormatDocm Format = "docm"
	FormatDotm Format = "dotm"

	// Presentation (OOXML).
	FormatPptx Format = "pptx"
	FormatPotx Format = "potx"
	FormatPpsx Format = "ppsx"
	FormatPptm Format = "pptm"
	FormatPotm Format = "potm"
	FormatPpsm Format = "ppsm"
	FormatPpam Format = "ppam"

	// Spreadsheet (OOXML).
	FormatXlsx Format = "xlsx"
	FormatXltx Format = "xltx"
	FormatXlsm Format = "xlsm"
	FormatXltm Format = "xltm"
	FormatXlam Format = "xlam"
	FormatXlsb Format = "xlsb"

	// Legacy compound binary.
	FormatDoc Format = "doc"
	FormatXls Format = "xls"
	FormatPpt Format = "ppt"

	// E-books.
	FormatEpub Format = "epub"
	FormatMobi Format = "mobi"

	// Recognized containers whose payload could not be identified.
	FormatZip      Format = "zip"
	FormatCompound Format = "cfb"

	FormatUnrecognized Format = "unrecognized"
)

// Family groups formats that share a container layout.
type Family string

const (
	FamilyText         Family = "text"
	FamilyPDF          Family = "pdf"
	FamilyWord         Family = "word"
	FamilyPresentation Family = "presentation"
	FamilySpreadsheet  Family = "spreadsheet"
	FamilyLegacy       Family = "legacy"
	FamilyEbook        Family = "ebook"
	FamilyContainer    Family = "container"
	FamilyUnrecognized Family = "unrecognized"
)

type formatInfo struct {
	family Family
	mime   string
}

var formats = map[Format]formatInfo{
	FormatPlainText: {FamilyText, "text/plain"},
	FormatPDF:       {FamilyPDF, "application/pdf"},

	FormatDocx: {FamilyWord, "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	FormatDotx: {FamilyWord, "application/vnd.openxmlformats-officedocument.wordprocessingml.template"},
	FormatDocm: {FamilyWord, "application/vnd.ms-word.document.macroEnabled.12"},
	FormatDotm: {FamilyWord, "application/vnd.ms-word.template.macroEnabled.12"},

	FormatPptx: {FamilyPresentation, "application/vnd.openxmlformats-officedocument.presentationml.presentation"},
	FormatPotx: {FamilyPresentation, "application/vnd.openxmlformats-officedocument.presentationml.template"},
	FormatPpsx: {FamilyPresentation, "application/vnd.openxmlformats-officedocument.presentationml.slideshow"},
	FormatPptm: {FamilyPresentation, "application/vnd.ms-powerpoint.presentation.macroEnabled.12"},
	FormatPotm: {FamilyPresentation, "application/vnd.ms-powerpoint.template.macroEnabled.12"},
	FormatPpsm: {FamilyPresentation, "application/vnd.ms-powerpoint.slideshow.macroEnabled.12"},
	FormatPpam: {FamilyPresentation, "application/vnd.ms-powerpoint.addin.macroEnabled.12"},

	FormatXlsx: {FamilySpreadsheet, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	FormatXltx: {FamilySpreadsheet, "application/vnd.openxmlformats-officedocument.spreadsheetml.template"},
	FormatXlsm: {FamilySpreadsheet, "application/vnd.ms-excel.sheet.macroEnabled.12"},
	FormatXltm: {FamilySpreadsheet, "application/vnd.ms-excel.template.macroEnabled.12"},
	FormatXlam: {FamilySpreadsheet, "application/vnd.ms-excel.addin.macroEnabled.12"},
	FormatXlsb: {FamilySpreadsheet, "application/vnd.ms-excel.sheet.binary.macroEnabled.12"},

	FormatDoc: {FamilyLegacy, "application/msword"},
	FormatXls: {FamilyLegacy, "application/vnd.ms-excel"},
	FormatPpt: {FamilyLegacy, "application/vnd.ms-powerpoint"},

	FormatEpub: {FamilyEbook, "application/epub+zip"},
	FormatMobi: {FamilyEbook, "application/x-mobipocket-ebook"},

	FormatZip:      {FamilyContainer, "application/zip"},
	FormatCompound: {FamilyContainer, "application/x-ole-storage"},

	FormatUnrecognized: {FamilyUnrecognized, "application/octet-stream"},
}

// Family returns the container family of f.
func (f Format) Family() Family {
	if info, ok := formats[f]; ok {
		return info.family
	}
	return FamilyUnrecognized
}

// MIME returns the canonical media type of f.
func (f Format) MIME() string {
	if info, ok := formats[f]; ok {
		return info.mime
	}
	return "application/octet-stream"
}

// AllFormats returns every format Detect can produce, in a stable order.
func AllFormats() []Format {
	return []Format{
		FormatPlainText, FormatPDF,
		FormatDocx, FormatDotx, FormatDocm, FormatDotm,
		FormatPptx, FormatPotx, FormatPpsx, FormatPptm, FormatPotm, FormatPpsm, FormatPpam,
		FormatXlsx, FormatXltx, FormatXlsm, FormatXltm, FormatXlam, FormatXlsb,
		FormatDoc, FormatXls, FormatPpt,
		FormatEpub, FormatMobi,
		FormatZip, FormatCompound,
		FormatUnrecognized,
	}
}
