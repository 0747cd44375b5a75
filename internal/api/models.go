package api

import (
	"github.com/soochol/textractor/internal/batch"
	"github.com/soochol/textractor/internal/extract"
)

// ServerInfo is the body of GET /.
type ServerInfo struct {
	Version string `json:"version"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ExtractionResult is the per-file entry of an extraction response. Text is
// null unless the file was extracted; Error is null when it was.
type ExtractionResult struct {
	ExtractionTime float64           `json:"extraction_time"` // seconds
	Success        bool              `json:"success"`
	Status         extract.Status    `json:"status"`
	Name           string            `json:"name"`
	FileName       string            `json:"file_name"`
	ContentType    string            `json:"content_type"`
	DetectedFormat extract.Format    `json:"detected_format"`
	Text           *string           `json:"text"`
	Error          *string           `json:"error"`
	ErrorKind      extract.ErrorKind `json:"error_kind,omitempty"`
}

type ExtractionResponse struct {
	RequestID string             `json:"request_id"`
	Results   []ExtractionResult `json:"results"`
}

// FormatInfo describes one detectable format in GET /formats.
type FormatInfo struct {
	Format    extract.Format `json:"format"`
	Family    extract.Family `json:"family"`
	MIME      string         `json:"mime"`
	Supported bool           `json:"supported"`
}

const (
	msgUnsupported = "Unsupported file type"
	msgFailed      = "Extraction failed"
	msgUnreadable  = "Failed to read file bytes"
)

func newExtractionResult(e batch.Entry) ExtractionResult {
	out := e.Outcome
	res := ExtractionResult{
		ExtractionTime: e.Elapsed.Seconds(),
		Success:        out.OK(),
		Status:         out.Status,
		Name:           e.FieldName,
		FileName:       e.FileName,
		ContentType:    e.ContentType,
		DetectedFormat: out.Format,
		ErrorKind:      out.Reason(),
	}

	var msg string
	switch {
	case out.OK():
		text := out.Text
		res.Text = &text
		return res
	case out.Status == extract.StatusUnsupported:
		msg = msgUnsupported
	case out.Reason() == extract.KindUnreadableInput:
		msg = msgUnreadable + ": " + out.Err.Err.Error()
	default:
		msg = msgFailed + ": " + out.Err.Error()
	}
	res.Error = &msg
	return res
}

func formatInfos() []FormatInfo {
	all := extract.AllFormats()
	infos := make([]FormatInfo, 0, len(all))
	for _, f := range all {
		infos = append(infos, FormatInfo{
			Format:    f,
			Family:    f.Family(),
			MIME:      f.MIME(),
			Supported: extract.Supported(f),
		})
	}
	return infos
}
