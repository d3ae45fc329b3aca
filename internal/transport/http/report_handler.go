package http

import (
	"errors"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"salespulse/internal/config"
	apperrors "salespulse/internal/errors"
	"salespulse/internal/middleware"
	api "salespulse/pkg/contracts/api/v1"
)

// multipartMemory is the part of an upload kept in memory while parsing;
// the rest is spooled to temporary files removed after the request.
const multipartMemory = 8 << 20

// ReportHandler handles spreadsheet uploads
type ReportHandler struct {
	service      ReportServiceInterface
	upload       config.UploadConfig
	validator    *middleware.Validator
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportServiceInterface, upload config.UploadConfig, validator *middleware.Validator, errorHandler *apperrors.ErrorHandler, logger *slog.Logger) *ReportHandler {
	if upload.FormField == "" {
		upload.FormField = config.DefaultFormField
	}
	if upload.MaxBytes <= 0 {
		upload.MaxBytes = config.DefaultMaxUploadBytes
	}
	return &ReportHandler{
		service:      service,
		upload:       upload,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "report")),
	}
}

// Routes returns the report routes, mounted under /api/reports
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.ContentTypeValidator(h.errorHandler, "multipart/form-data"))

	r.With(middleware.TraceMiddleware("report.upload")).Post("/", h.Upload)
	r.With(middleware.TraceMiddleware("report.export")).Post("/export", h.Export)

	return r
}

// Upload handles POST /api/reports
func (h *ReportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	req := api.UploadRequest{FileName: header.Filename, Size: header.Size}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.Process(r.Context(), file, req.FileName)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.NewSuccessResponse(api.NewReportResponse(report)))
}

// Export handles POST /api/reports/export?format=
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = api.ExportCSV
	}

	file, header, ok := h.openUpload(w, r)
	if !ok {
		return
	}
	defer file.Close()

	req := api.ExportRequest{
		UploadRequest: api.UploadRequest{FileName: header.Filename, Size: header.Size},
		Format:        format,
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.ProcessAndExport(r.Context(), file, req.FileName, req.Format)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export",
			slog.String("file_name", result.FileName),
			slog.String("error", err.Error()))
	}
}

// openUpload parses the multipart body and returns the spreadsheet part.
// On failure the error response has been written and ok is false.
func (h *ReportHandler) openUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, bool) {
	if r.ContentLength > h.upload.MaxBytes {
		h.errorHandler.HandleError(w, r, &http.MaxBytesError{Limit: h.upload.MaxBytes})
		return nil, nil, false
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.upload.MaxBytes)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, err)
			return nil, nil, false
		}
		h.errorHandler.HandleError(w, r, apperrors.InvalidRequestWithError(err))
		return nil, nil, false
	}
	file, header, err := r.FormFile(h.upload.FormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			h.logger.DebugContext(r.Context(), "upload without spreadsheet",
				slog.String("field", h.upload.FormField))
			h.errorHandler.HandleError(w, r, apperrors.ErrMissingFile)
			return nil, nil, false
		}
		h.errorHandler.HandleError(w, r, apperrors.InvalidRequestWithError(err))
		return nil, nil, false
	}

	return file, header, true
}
