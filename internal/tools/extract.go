package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/soochol/textractor/internal/extract"
)

const defaultMaxFileBytes = 256 << 20 // 256MB

// readInput reads the file named by the "path" argument, refusing files
// larger than maxBytes.
func readInput(input any, maxBytes int64) ([]byte, error) {
	args, ok := input.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("invalid input: expected object")
	}
	path, _ := args["path"].(string)
	if path == "" {
		return nil, fmt.Errorf("path is required")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if maxBytes <= 0 {
		maxBytes = defaultMaxFileBytes
	}
	if info.Size() > maxBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", path, maxBytes)
	}
	return os.ReadFile(path)
}

var pathSchema = map[string]any{
	"path": map[string]any{"type": "string", "description": "Path of the file on the server"},
}

// ExtractResult is the body returned by ExtractTool.
type ExtractResult struct {
	Status    extract.Status    `json:"status"`
	Format    extract.Format    `json:"format"`
	Text      string            `json:"text,omitempty"`
	Error     string            `json:"error,omitempty"`
	ErrorKind extract.ErrorKind `json:"error_kind,omitempty"`
}

func (r ExtractResult) IsFailure() bool { return r.Status == extract.StatusFailed }

type ExtractTool struct {
	dispatcher *extract.Dispatcher
	maxBytes   int64
}

func NewExtractTool(d *extract.Dispatcher, maxBytes int64) *ExtractTool {
	return &ExtractTool{dispatcher: d, maxBytes: maxBytes}
}

func (t *ExtractTool) Name() string { return "textractor_extract" }
func (t *ExtractTool) Description() string {
	return "Extract the plain text of a document (txt, pdf, docx, pptx and their template or macro variants). The format is detected from the file content, not its name."
}

func (t *ExtractTool) InputSchema() map[string]any {
	return inputSchema(pathSchema, "path")
}

func (t *ExtractTool) Execute(_ context.Context, input any) (any, error) {
	data, err := readInput(input, t.maxBytes)
	if err != nil {
		return nil, err
	}

	out := t.dispatcher.Extract(data)
	res := ExtractResult{
		Status:    out.Status,
		Format:    out.Format,
		Text:      out.Text,
		ErrorKind: out.Reason(),
	}
	if out.Err != nil {
		res.Error = out.Err.Error()
	}
	return res, nil
}

type DetectTool struct {
	maxBytes int64
}

func NewDetectTool(maxBytes int64) *DetectTool {
	return &DetectTool{maxBytes: maxBytes}
}

func (t *DetectTool) Name() string { return "textractor_detect" }
func (t *DetectTool) Description() string {
	return "Detect the format of a document from its leading bytes and package manifest, and report whether text extraction is supported for it."
}

func (t *DetectTool) InputSchema() map[string]any {
	return inputSchema(pathSchema, "path")
}

func (t *DetectTool) Execute(_ context.Context, input any) (any, error) {
	data, err := readInput(input, t.maxBytes)
	if err != nil {
		return nil, err
	}
	f := extract.Detect(data)
	return map[string]any{
		"format":    f,
		"family":    f.Family(),
		"mime":      f.MIME(),
		"supported": extract.Supported(f),
	}, nil
}

type FormatsTool struct{}

func (FormatsTool) Name() string { return "textractor_formats" }
func (FormatsTool) Description() string {
	return "List every format the detector can report and whether text extraction is supported for it."
}

func (FormatsTool) InputSchema() map[string]any {
	return inputSchema(map[string]any{})
}

func (FormatsTool) Execute(_ context.Context, _ any) (any, error) {
	all := extract.AllFormats()
	formats := make([]map[string]any, 0, len(all))
	for _, f := range all {
		formats = append(formats, map[string]any{
			"format":    f,
			"family":    f.Family(),
			"mime":      f.MIME(),
			"supported": extract.Supported(f),
		})
	}
	return map[string]any{"formats": formats}, nil
}
