package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/vehiscan/odometer-api/internal/application/analysis"
	domain "github.com/vehiscan/odometer-api/internal/domain/analysis"
	"github.com/vehiscan/odometer-api/internal/middleware"
)

// maxUploadBytes caps the uploaded image at 1 MiB. formOverhead leaves room
// for the multipart boundaries and the userMessage field so a full-size image
// still fits in the request body.
const (
	maxUploadBytes = 1 << 20
	formOverhead   = 16 << 10
)

type Router struct {
	svc      *appanalysis.Service
	apiToken string
}

func NewRouter(svc *appanalysis.Service, apiToken string, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{svc: svc, apiToken: apiToken}
	mux := chi.NewRouter()

	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type", middleware.HeaderAPIToken},
	}))
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)

	mux.Get("/", r.handleWelcome)
	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.With(middleware.AccessGuard(apiToken)).Post("/api/upload-analyze", r.wrap(r.handleUploadAnalyze))
	mux.Post("/api/analyze", r.wrap(r.handleAnalyze))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// statusError carries a client-facing status code through the error return.
type statusError struct {
	code int
	msg  string
}

func (e *statusError) Error() string { return e.msg }

func badRequest(msg string) error {
	return &statusError{code: http.StatusBadRequest, msg: msg}
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var se *statusError
			if errors.As(err, &se) {
				writeJSON(w, se.code, map[string]any{"error": se.msg})
				return
			}
			if errors.Is(err, domain.ErrQuotaExceeded) {
				writeJSON(w, http.StatusTooManyRequests, map[string]any{"error": "ai quota exceeded"})
				return
			}
			middleware.IncrementAnalysesFailed()
			writeJSON(w, http.StatusInternalServerError, map[string]any{
				"error":   "An error occurred",
				"details": err.Error(),
			})
		}
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// writeEnvelope sends a pre-shaped JSON envelope untouched.
func writeEnvelope(w http.ResponseWriter, envelope string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(envelope))
}

// GET /
func (r *Router) handleWelcome(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": "Welcome to Odo Metter API"})
}

// POST /api/upload-analyze
// Multipart form: "file" (jpeg/png/jpg, <=1MiB), optional "userMessage".
func (r *Router) handleUploadAnalyze(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, maxUploadBytes+formOverhead)
	if err := req.ParseMultipartForm(maxUploadBytes); err != nil {
		// Oversized bodies and broken forms never reach the provider and
		// surface the same way a missing file does.
		middleware.IncrementUploadsRejected()
		return badRequest("File is required")
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		return badRequest("File is required")
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		middleware.IncrementUploadsRejected()
		return badRequest("File is required")
	}

	mimeType := header.Header.Get("Content-Type")
	if !domain.AllowedImageType(mimeType) {
		// The intake drops disallowed types, callers see the file-required error.
		middleware.IncrementUploadsRejected()
		return badRequest("File is required")
	}

	middleware.IncrementAnalyses()
	envelope, err := r.svc.AnalyzeUpload(req.Context(), file, header.Filename, mimeType, req.FormValue("userMessage"))
	if err != nil {
		return err
	}
	writeEnvelope(w, envelope)
	return nil
}

// POST /api/analyze
// Body: {"filePath": "...", "mimeType": "image/png", "userMessage": "..."}
// The file must already be resident on the server.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		FilePath    string `json:"filePath"`
		MimeType    string `json:"mimeType"`
		UserMessage string `json:"userMessage"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("filePath is required")
	}
	if body.FilePath == "" {
		return badRequest("filePath is required")
	}
	if body.MimeType == "" {
		body.MimeType = domain.DefaultMIMEType
	}

	middleware.IncrementAnalyses()
	envelope, err := r.svc.Analyze(req.Context(), domain.Request{
		FilePath:    body.FilePath,
		MIMEType:    body.MimeType,
		Instruction: body.UserMessage,
	})
	if err != nil {
		return err
	}
	writeEnvelope(w, envelope)
	return nil
}
