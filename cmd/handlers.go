package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/revenueradar/radar/internal/export"
	"github.com/revenueradar/radar/internal/ingest"
	"github.com/revenueradar/radar/internal/model"
	"github.com/revenueradar/radar/internal/outreach"
	"github.com/revenueradar/radar/internal/pipeline"
)

const defaultMaxUpload = 20 << 20

var validate = validator.New()

// server carries the dependencies of the HTTP handlers.
type server struct {
	pipeline  *pipeline.Pipeline
	drafter   *outreach.Drafter
	origins   []string
	maxUpload int64
}

// buildRouter returns the HTTP API handler.
func buildRouter(s *server) http.Handler {
	if s.maxUpload <= 0 {
		s.maxUpload = defaultMaxUpload
	}
	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "RevenueRadar hybrid lead scoring API"})
	})
	r.Get("/health", handleHealth)
	r.Post("/analyze", s.handleAnalyze)
	r.Post("/draft-email", s.handleDraftEmail)
	r.Post("/draft-bulk-emails", s.handleDraftBulk)
	r.Post("/export-excel", handleExportExcel)
	r.Post("/export-crm", handleExportCRM)
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid upload: %v", err))
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing form file \"file\"")
		return
	}
	defer file.Close() //nolint:errcheck

	rows, err := ingest.Read(r.Context(), hdr.Filename, file)
	if err != nil {
		writeErr(w, err)
		return
	}

	res, err := s.pipeline.RunRecords(r.Context(), rows)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleDraftEmail(w http.ResponseWriter, r *http.Request) {
	var req outreach.Request
	if !decodeBody(w, r, &req) {
		return
	}
	writeJSON(w, http.StatusOK, s.drafter.Draft(r.Context(), req))
}

type bulkLead struct {
	CustomerName string `json:"customer_name"`
	Reason       string `json:"reason"`
	Lead         struct {
		CompanyName string `json:"company_name"`
		Industry    string `json:"industry"`
	} `json:"lead_data"`
}

type bulkResult struct {
	outreach.Email
	Status string `json:"status"`
}

func (s *server) handleDraftBulk(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Leads []bulkLead `json:"leads" validate:"required,min=1"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	reqs := make([]outreach.Request, 0, len(body.Leads))
	for _, l := range body.Leads {
		name := l.CustomerName
		if name == "" {
			name = "Valued Customer"
		}
		reqs = append(reqs, outreach.Request{
			CustomerName: name,
			Company:      companyInfo(l.Lead.CompanyName, l.Lead.Industry),
			Reason:       l.Reason,
		})
	}

	emails := s.drafter.DraftBulk(r.Context(), reqs)
	results := make([]bulkResult, len(emails))
	for i, e := range emails {
		results[i] = bulkResult{Email: e, Status: "success"}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results, "total": len(results)})
}

func companyInfo(name, industry string) string {
	if name == "" {
		name = "N/A"
	}
	if industry == "" {
		industry = "N/A"
	}
	return fmt.Sprintf("%s (Industry: %s)", name, industry)
}

func handleExportExcel(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Results []model.LeadAnalysis `json:"results"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteExcel(&buf, body.Results); err != nil {
		writeErr(w, err)
		return
	}

	w.Header().Set("Content-Type", export.ExcelContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", export.Filename(time.Now())))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func handleExportCRM(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Leads   []model.LeadAnalysis `json:"leads"`
		CRMType string               `json:"crm_type" validate:"required"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	out, err := export.MapCRM(body.CRMType, body.Leads)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// decodeBody decodes and validates a JSON request body, writing a 400 on
// failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var ingestErr *model.IngestionError
	var exportErr *model.ExportError
	switch {
	case errors.As(err, &ingestErr):
		return http.StatusBadRequest
	case errors.As(err, &exportErr):
		if errors.Is(err, export.ErrUnsupportedTarget) {
			return http.StatusBadRequest
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func writeErr(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("request failed", zap.Error(err))
	}
	writeError(w, status, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
