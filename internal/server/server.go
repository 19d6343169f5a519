package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/verdict-dev/verdict/internal/language"
	"github.com/verdict-dev/verdict/internal/review"
)

const (
	// maxUploadBytes bounds a multipart upload's in-memory parse.
	maxUploadBytes = 32 << 20
	// maxBodyBytes bounds JSON request bodies.
	maxBodyBytes = 16 << 20
)

// Server serves the review API.
type Server struct {
	engine      *review.Engine
	log         *logrus.Logger
	defaultLang language.Language
	timeout     time.Duration
	mux         *http.ServeMux
}

// Config carries server construction parameters.
type Config struct {
	Engine *review.Engine
	Logger *logrus.Logger
	// DefaultLanguage is assumed for files whose extension is unknown.
	DefaultLanguage language.Language
	// Timeout bounds each review request end to end.
	Timeout time.Duration
}

// New constructs a Server and registers its routes.
func New(cfg Config) *Server {
	log := cfg.Logger
	if log == nil {
		log = logrus.New()
	}
	lang := cfg.DefaultLanguage
	if lang == "" {
		lang = language.Python
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	s := &Server{
		engine:      cfg.Engine,
		log:         log,
		defaultLang: lang,
		timeout:     timeout,
		mux:         http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /supported-languages", s.handleSupportedLanguages)
	s.mux.HandleFunc("POST /review-code", s.handleReviewCode)
	s.mux.HandleFunc("POST /review-codebase", s.handleReviewCodebase)
	s.mux.HandleFunc("POST /upload-files", s.handleUploadFiles)
	s.mux.HandleFunc("POST /generate-report", s.handleGenerateReport)
}

// Handler returns the server's HTTP handler with logging applied.
func (s *Server) Handler() http.Handler {
	return s.logging(s.mux)
}

// ListenAndServe runs the server on addr until it fails.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.log.WithField("addr", addr).Info("server listening")
	return srv.ListenAndServe()
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).Round(time.Millisecond).String(),
		}).Info("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.WithError(err).Error("encoding response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, errorResponse{Detail: detail})
}
