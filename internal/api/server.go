package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nguyentantai21042004/transcript-flow/internal/formatter"
	"github.com/nguyentantai21042004/transcript-flow/internal/logger"
	"github.com/nguyentantai21042004/transcript-flow/internal/section"
)

// maxBodyBytes caps request bodies for both transcription JSON and uploads.
const maxBodyBytes = 32 << 20

// Server is the HTTP API for formatting transcripts.
type Server struct {
	router     chi.Router
	opts       formatter.Options
	summarizer section.Summarizer
	log        logger.Logger
	apiKey     string
}

// NewServer creates and configures the HTTP server. An empty apiKey leaves
// the /api routes unauthenticated.
func NewServer(opts formatter.Options, sum section.Summarizer, log logger.Logger, apiKey string) (*Server, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		opts:       opts,
		summarizer: sum,
		log:        log,
		apiKey:     apiKey,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.apiKey != "" {
			r.Use(AuthMiddleware(s.apiKey))
		}

		r.Post("/api/format", s.handleFormat)
		r.Post("/api/reformat", s.handleReformat)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
