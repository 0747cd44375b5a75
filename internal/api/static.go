package api

import (
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/soochol/textractor/internal/extract"
)

//go:embed static/form.html static/openapi.yaml
var staticFS embed.FS

func (s *Server) serverInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ServerInfo{
		Version: s.version,
		Name:    s.name,
		Message: "Welcome to the textractor API",
	})
}

func (s *Server) listFormats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(formatInfos())
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// showForm serves a browser upload form that posts to /extract.
func (s *Server) showForm(w http.ResponseWriter, r *http.Request) {
	page, err := staticFS.ReadFile("static/form.html")
	if err != nil {
		http.Error(w, "form not available", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) openAPIYAML(w http.ResponseWriter, r *http.Request) {
	doc, err := staticFS.ReadFile("static/openapi.yaml")
	if err != nil {
		http.Error(w, "api document not available", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.Write(doc)
}

func (s *Server) openAPIJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := openAPIDocument()
	if err != nil {
		s.logger.Error("openapi: decode embedded document", "err", err)
		http.Error(w, "api document not available", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

// openAPIDocument decodes the embedded YAML once. Format enums are filled in
// from the extract package so the document cannot drift from Detect.
var openAPIDocument = sync.OnceValues(func() (map[string]any, error) {
	raw, err := staticFS.ReadFile("static/openapi.yaml")
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse openapi.yaml: %w", err)
	}

	formats := make([]any, 0, len(extract.AllFormats()))
	for _, f := range extract.AllFormats() {
		formats = append(formats, string(f))
	}
	if components, ok := doc["components"].(map[string]any); ok {
		if schemas, ok := components["schemas"].(map[string]any); ok {
			if format, ok := schemas["Format"].(map[string]any); ok {
				format["enum"] = formats
			}
		}
	}
	return doc, nil
})
