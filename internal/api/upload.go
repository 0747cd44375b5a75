package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/soochol/textractor/internal/batch"
)

const (
	unnamedField       = "Unnamed field"
	unnamedFile        = "Unnamed file"
	defaultContentType = "application/octet-stream"
)

// extractFiles handles POST /extract. Every file part of the multipart body
// yields one result, in upload order. Parts are read fully before any
// extraction starts.
func (s *Server) extractFiles(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestBytes)
	mr, err := r.MultipartReader()
	if err != nil {
		http.Error(w, "expected multipart/form-data body", http.StatusBadRequest)
		return
	}

	var parts []batch.Part
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			if len(parts) == 0 {
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					http.Error(w, fmt.Sprintf("request too large (max %d bytes)", s.maxRequestBytes), http.StatusRequestEntityTooLarge)
					return
				}
				http.Error(w, "malformed multipart body", http.StatusBadRequest)
				return
			}
			s.logger.Warn("extract: multipart body ended early",
				"request_id", middleware.GetReqID(r.Context()), "parts", len(parts), "err", err)
			break
		}
		parts = append(parts, s.readPart(p))
		p.Close()
	}

	resp := ExtractionResponse{
		RequestID: uuid.NewString(),
		Results:   make([]ExtractionResult, 0, len(parts)),
	}
	for _, e := range s.agg.Run(r.Context(), parts) {
		resp.Results = append(resp.Results, newExtractionResult(e))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) readPart(p *multipart.Part) batch.Part {
	part := batch.Part{
		FieldName:   p.FormName(),
		FileName:    p.FileName(),
		ContentType: defaultContentType,
	}
	if part.FieldName == "" {
		part.FieldName = unnamedField
	}
	if part.FileName == "" {
		part.FileName = unnamedFile
	}
	if ct := p.Header.Get("Content-Type"); ct != "" {
		part.ContentType = ct
	}

	data, err := io.ReadAll(io.LimitReader(p, s.maxFileBytes+1))
	switch {
	case err != nil:
		part.Err = err
	case int64(len(data)) > s.maxFileBytes:
		part.Err = fmt.Errorf("file exceeds %d bytes", s.maxFileBytes)
	default:
		part.Data = data
	}
	return part
}
