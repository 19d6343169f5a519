package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/verdict-dev/verdict/internal/language"
	"github.com/verdict-dev/verdict/internal/report"
	"github.com/verdict-dev/verdict/internal/review"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleSupportedLanguages(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]language.Language{
		"languages": language.Supported(),
	})
}

type reviewCodeRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

func (s *Server) handleReviewCode(w http.ResponseWriter, r *http.Request) {
	var req reviewCodeRequest
	if !s.decode(w, r, &req) {
		return
	}

	lang := s.defaultLang
	if req.Language != "" {
		parsed, ok := language.Parse(req.Language)
		if !ok {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported language: %s", req.Language))
			return
		}
		lang = parsed
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	resp, err := s.engine.ReviewSnippet(ctx, req.Code, lang)
	if err != nil {
		s.reviewError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type sourceFileRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

type reviewCodebaseRequest struct {
	ProjectName string              `json:"project_name"`
	Files       []sourceFileRequest `json:"files"`
}

func (s *Server) handleReviewCodebase(w http.ResponseWriter, r *http.Request) {
	var req reviewCodebaseRequest
	if !s.decode(w, r, &req) {
		return
	}

	files, err := s.toSourceFiles(req.Files)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.reviewProject(w, r, req.ProjectName, files)
}

func (s *Server) handleUploadFiles(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, http.StatusBadRequest, "parsing multipart form: "+err.Error())
		return
	}
	uploads := r.MultipartForm.File["files"]
	if len(uploads) == 0 {
		s.writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	files := make([]review.SourceFile, 0, len(uploads))
	for _, hdr := range uploads {
		f, err := hdr.Open()
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "opening upload "+hdr.Filename)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
		f.Close()
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "reading upload "+hdr.Filename)
			return
		}
		if !utf8.Valid(data) {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("file %s is not valid UTF-8 text", hdr.Filename))
			return
		}
		files = append(files, review.SourceFile{
			Filename: hdr.Filename,
			Content:  string(data),
			Language: language.ClassifyDefault(hdr.Filename, s.defaultLang),
		})
	}

	s.reviewProject(w, r, r.FormValue("project_name"), files)
}

type generateReportRequest struct {
	ReviewData  *review.ProjectResult `json:"review_data"`
	Format      string                `json:"format"`
	IncludeCode bool                  `json:"include_code"`
	Files       []sourceFileRequest   `json:"files"`
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	var req generateReportRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.ReviewData == nil {
		s.writeError(w, http.StatusBadRequest, "missing review_data")
		return
	}
	format := req.Format
	if format == "" {
		format = "markdown"
	}
	writer, err := report.Get(format)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := report.Options{IncludeCode: req.IncludeCode}
	if req.IncludeCode {
		sources, err := s.toSourceFiles(req.Files)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		opts.Sources = sources
	}

	// Render to a buffer first so a failure never leaves partial bytes
	// on the wire.
	var buf bytes.Buffer
	if err := writer.Write(&buf, req.ReviewData, opts); err != nil {
		var renderErr *report.RenderError
		if errors.As(err, &renderErr) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, "rendering report: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", report.ContentType(format))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", report.Filename(req.ReviewData.ProjectName, format)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.WithError(err).Error("writing report response")
	}
}

// reviewProject runs the engine over a batch and writes the outcome.
func (s *Server) reviewProject(w http.ResponseWriter, r *http.Request, projectName string, files []review.SourceFile) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	result, err := s.engine.ReviewProject(ctx, projectName, files)
	if err != nil {
		s.reviewError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) reviewError(w http.ResponseWriter, err error) {
	if review.IsValidationError(err) {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log.WithError(err).Error("review failed")
	s.writeError(w, http.StatusBadGateway, err.Error())
}

// decode parses a JSON request body into v, rejecting unknown garbage and
// oversized bodies.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		s.writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) toSourceFiles(reqs []sourceFileRequest) ([]review.SourceFile, error) {
	files := make([]review.SourceFile, 0, len(reqs))
	for _, rf := range reqs {
		lang := language.ClassifyDefault(rf.Filename, s.defaultLang)
		if rf.Language != "" {
			parsed, ok := language.Parse(rf.Language)
			if !ok {
				return nil, fmt.Errorf("unsupported language for %s: %s", rf.Filename, rf.Language)
			}
			lang = parsed
		}
		files = append(files, review.SourceFile{
			Filename: rf.Filename,
			Content:  rf.Content,
			Language: lang,
		})
	}
	return files, nil
}

func (s *Server) requestContext(r *http.Request) (ctx context.Context, cancel func()) {
	return context.WithTimeout(r.Context(), s.timeout)
}
