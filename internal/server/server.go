// Package server exposes the converter over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/goccy/go-json"
	"github.com/rs/cors"

	"github.com/GabrielNunesIT/bru2postman/internal/adapters/renderers"
	"github.com/GabrielNunesIT/bru2postman/internal/config"
	"github.com/GabrielNunesIT/bru2postman/internal/domain"
	"github.com/GabrielNunesIT/bru2postman/internal/mapper"
	"github.com/GabrielNunesIT/bru2postman/internal/validate"
)

const (
	// UploadField is the multipart form field carrying the Bruno export.
	UploadField = "brunoFile"

	// StatsHeader carries a JSON summary of a conversion.
	StatsHeader = "X-Conversion-Stats"

	shutdownTimeout = 5 * time.Second
)

var errNoFile = errors.New("no file uploaded")

// Server serves the conversion API.
type Server struct {
	log       logger.ILogger
	cfg       config.ServerConfig
	converter *mapper.Converter
	renderer  *renderers.PostmanRenderer
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Details string `json:"details,omitempty"`
}

// ConversionStats is encoded into the X-Conversion-Stats header.
type ConversionStats struct {
	Items     int  `json:"items"`
	Variables int  `json:"variables"`
	HasAuth   bool `json:"hasAuth"`
}

type upload struct {
	name string
	data []byte
}

// New creates a new Server.
func New(log logger.ILogger, cfg config.ServerConfig, converter *mapper.Converter) *Server {
	return &Server{
		log:       log,
		cfg:       cfg,
		converter: converter,
		renderer:  renderers.NewPostmanRenderer(),
	}
}

// Handler returns the API routes wrapped with CORS handling.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/convert", s.handleConvert)
	mux.HandleFunc("POST /api/validate", s.handleValidate)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.newCORS().Handler(mux)
}

func (s *Server) newCORS() *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{
			"Content-Disposition",
			StatsHeader,
		},
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Server listening on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
	}

	s.log.Infof("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	file, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	s.log.Infof("Converting %s (%d bytes)", file.name, len(file.data))

	collection, err := domain.ParseBrunoCollection(file.data)
	if err != nil {
		writeParseError(w, err)
		return
	}

	postman, err := s.converter.Convert(collection)
	if err != nil {
		s.log.Errorf("Conversion of %s failed: %v", file.name, err)
		writeError(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Conversion failed",
			Message: "An error occurred while converting the collection",
			Details: err.Error(),
		})
		return
	}

	stats := ConversionStats{
		Items:     len(postman.Item),
		Variables: len(postman.Variable),
		HasAuth:   postman.Auth != nil,
	}

	statsJSON, err := json.Marshal(stats)
	if err != nil {
		writeError(w, http.StatusInternalServerError, ErrorResponse{Error: "Conversion failed", Details: err.Error()})
		return
	}

	fileName := renderers.PostmanFileName(file.name)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set(StatsHeader, string(statsJSON))
	w.WriteHeader(http.StatusOK)

	if err := s.renderer.Render(postman, w); err != nil {
		s.log.Errorf("Failed to write %s: %v", fileName, err)
		return
	}

	s.log.Infof("Successfully converted: %s (%d items, %d variables)", fileName, stats.Items, stats.Variables)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	file, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	collection, err := domain.ParseBrunoCollection(file.data)
	switch {
	case errors.Is(err, domain.ErrNotObject):
		collection = nil
	case err != nil:
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, validate.Validate(collection))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// readUpload writes a 400 response and returns false when the request carries no usable file.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (upload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	file, err := s.parseUpload(r)
	if err == nil {
		return file, true
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusBadRequest, ErrorResponse{
			Error:   "File too large",
			Message: fmt.Sprintf("Uploads are limited to %d bytes", s.cfg.MaxUploadBytes),
		})
	case errors.Is(err, errNoFile):
		writeError(w, http.StatusBadRequest, ErrorResponse{
			Error:   "No file uploaded",
			Message: "Please select a Bruno JSON file to convert",
		})
	default:
		writeError(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid upload",
			Message: "Only JSON files are accepted",
			Details: err.Error(),
		})
	}

	return upload{}, false
}

func (s *Server) parseUpload(r *http.Request) (upload, error) {
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return upload{}, errNoFile
		}
		return upload{}, fmt.Errorf("failed to parse upload: %w", err)
	}

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return upload{}, errNoFile
		}
		return upload{}, fmt.Errorf("failed to read upload: %w", err)
	}
	defer file.Close()

	if !isJSONUpload(header) {
		return upload{}, fmt.Errorf("%s is not a JSON file", header.Filename)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return upload{}, fmt.Errorf("failed to read upload: %w", err)
	}

	return upload{name: header.Filename, data: data}, nil
}

func isJSONUpload(header *multipart.FileHeader) bool {
	if strings.EqualFold(filepath.Ext(header.Filename), ".json") {
		return true
	}

	contentType := header.Header.Get("Content-Type")
	mediaType, _, _ := strings.Cut(contentType, ";")

	return strings.EqualFold(strings.TrimSpace(mediaType), "application/json")
}

func writeParseError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrInvalidJSON) {
		writeError(w, http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid JSON file",
			Message: "The uploaded file is not valid JSON format",
			Details: err.Error(),
		})
		return
	}

	writeError(w, http.StatusBadRequest, ErrorResponse{
		Error:   "Invalid Bruno collection",
		Message: "The file does not appear to be a valid Bruno collection",
		Details: err.Error(),
	})
}

func writeError(w http.ResponseWriter, status int, body ErrorResponse) {
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}
