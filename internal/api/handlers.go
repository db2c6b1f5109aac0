package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/xid"

	"github.com/nguyentantai21042004/transcript-flow/internal/export"
	"github.com/nguyentantai21042004/transcript-flow/internal/formatter"
	"github.com/nguyentantai21042004/transcript-flow/internal/legacy"
	"github.com/nguyentantai21042004/transcript-flow/internal/render"
	"github.com/nguyentantai21042004/transcript-flow/internal/transcript"
)

type formatRequest struct {
	Transcription transcript.Transcription    `json:"transcription"`
	Speakers      []transcript.SpeakerSegment `json:"speakers,omitempty"`
	Names         map[string]string           `json:"names,omitempty"`
	Title         string                      `json:"title,omitempty"`
	Source        string                      `json:"source,omitempty"`
	Options       *renderOptions              `json:"options,omitempty"`
}

// renderOptions override the server defaults for one request.
type renderOptions struct {
	GenerateTOC       *bool `json:"generate_toc,omitempty"`
	MinimalTimestamps *bool `json:"minimal_timestamps,omitempty"`
	ContentMarkers    *bool `json:"content_markers,omitempty"`
	AddSummaries      *bool `json:"add_summaries,omitempty"`
}

type documentResponse struct {
	ID         string            `json:"id"`
	Markdown   string            `json:"markdown"`
	Sections   []sectionResponse `json:"sections"`
	Paragraphs int               `json:"paragraphs"`
	Diarized   bool              `json:"diarized"`
	Stats      *statsResponse    `json:"stats,omitempty"`
}

type sectionResponse struct {
	Anchor  string  `json:"anchor"`
	Title   string  `json:"title"`
	Start   float64 `json:"start"`
	Type    string  `json:"type"`
	Summary string  `json:"summary,omitempty"`
}

type statsResponse struct {
	Accepted         int `json:"accepted"`
	Duplicates       int `json:"duplicates"`
	Dropped          int `json:"dropped"`
	Resets           int `json:"resets"`
	DiscardedByReset int `json:"discarded_by_reset"`
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req formatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	opts := s.opts
	req.Options.apply(&opts)

	f, err := formatter.New(opts, s.summarizer, s.log)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := f.Format(r.Context(), formatter.Request{
		Transcription: req.Transcription,
		Speakers:      req.Speakers,
		Names:         req.Names,
		Metadata:      render.Metadata{Title: req.Title, Source: sanitizeFilename(req.Source)},
	})
	if err != nil {
		s.log.Error(r.Context(), "Format failed: %v", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	stats := toStats(doc)
	s.writeDocument(w, r, doc, &stats)
}

// handleReformat accepts a multipart upload of a rendered transcript in any
// supported document format.
func (s *Server) handleReformat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !legacy.IsSupported(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	opts := s.opts
	if v, ok, err := positiveFloat(r.FormValue("paragraph_duration")); err != nil {
		jsonError(w, "paragraph_duration: "+err.Error(), http.StatusBadRequest)
		return
	} else if ok {
		opts.Paragraph.MaxSeconds = v
	}
	if v, ok, err := positiveFloat(r.FormValue("section_duration")); err != nil {
		jsonError(w, "section_duration: "+err.Error(), http.StatusBadRequest)
		return
	} else if ok {
		opts.SectionDuration = v
	}

	f, err := formatter.New(opts, s.summarizer, s.log)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	fragments, err := legacy.Load(file, filename)
	if err != nil {
		if errors.Is(err, legacy.ErrNoContent) {
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := f.Reformat(r.Context(), fragments, render.Metadata{Title: r.FormValue("title"), Source: filename})
	if err != nil {
		if errors.Is(err, formatter.ErrNoFragments) {
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		s.log.Error(r.Context(), "Reformat failed: %v", err)
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s.writeDocument(w, r, doc, nil)
}

// writeDocument answers with JSON, or with the bare document when the
// format query parameter asks for md or html.
func (s *Server) writeDocument(w http.ResponseWriter, r *http.Request, doc formatter.Document, stats *statsResponse) {
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "md", "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, doc.Markdown)
		return
	case "html":
		title := doc.Metadata.Title
		if title == "" {
			title = render.DefaultTitle
		}
		var buf bytes.Buffer
		if err := export.HTML(doc.Markdown, title, &buf); err != nil {
			jsonError(w, "render html: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
		return
	}

	resp := documentResponse{
		ID:         xid.New().String(),
		Markdown:   doc.Markdown,
		Sections:   make([]sectionResponse, 0, len(doc.Sections)),
		Paragraphs: len(doc.Paragraphs),
		Diarized:   doc.Diarized,
		Stats:      stats,
	}
	for _, sec := range doc.Sections {
		resp.Sections = append(resp.Sections, sectionResponse{
			Anchor:  render.AnchorID(sec.Start, sec.Title),
			Title:   sec.Title,
			Start:   sec.Start,
			Type:    string(sec.Type),
			Summary: sec.Summary,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (o *renderOptions) apply(opts *formatter.Options) {
	if o == nil {
		return
	}
	if o.GenerateTOC != nil {
		opts.Render.GenerateTOC = *o.GenerateTOC
	}
	if o.MinimalTimestamps != nil {
		opts.Render.MinimalTimestamps = *o.MinimalTimestamps
	}
	if o.ContentMarkers != nil {
		opts.Render.ContentMarkers = *o.ContentMarkers
	}
	if o.AddSummaries != nil {
		opts.AddSummaries = *o.AddSummaries
	}
}

func toStats(doc formatter.Document) statsResponse {
	return statsResponse{
		Accepted:         doc.Stats.Accepted,
		Duplicates:       doc.Stats.Duplicates,
		Dropped:          doc.Stats.Dropped,
		Resets:           doc.Stats.Resets,
		DiscardedByReset: doc.Stats.DiscardedByReset,
	}
}

// positiveFloat parses an optional form value. ok is false when it is empty.
func positiveFloat(v string) (float64, bool, error) {
	if strings.TrimSpace(v) == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false, err
	}
	if !(f > 0) {
		return 0, false, fmt.Errorf("must be positive, got %v", f)
	}
	return f, true, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	if name == "" {
		return ""
	}
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "." || name == "/" {
		return "unnamed"
	}
	return name
}
