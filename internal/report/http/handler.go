// Package reporthttp exposes the report definition and generation endpoints.
package reporthttp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/coverdesk/coverdesk/internal/platform/httpx"
	"github.com/coverdesk/coverdesk/internal/report"
	"github.com/coverdesk/coverdesk/internal/shared"
	"github.com/coverdesk/coverdesk/jobs"
)

// Handler serves the report HTTP surface.
type Handler struct {
	service  *report.Service
	enqueue  func(r *http.Request, payload jobs.ReportGeneratePayload) error
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler constructs a Handler. The enqueue closure decouples the handler
// from the asynq client for tests.
func NewHandler(service *report.Service, client *jobs.Client, logger *slog.Logger) *Handler {
	h := &Handler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
	h.enqueue = func(r *http.Request, payload jobs.ReportGeneratePayload) error {
		_, err := client.EnqueueReportGenerate(r.Context(), payload)
		return err
	}
	return h
}

// MountRoutes attaches the report routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Post("/", h.create)
		r.Get("/", h.list)
		r.Route("/{reportID}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Patch("/", h.update)
			r.Delete("/", h.delete)
			r.Post("/generate", h.generate)
			r.Get("/files", h.files)
			r.Get("/files/{fileID}/download", h.download)
		})
	})
}

func (h *Handler) tenant(w http.ResponseWriter, r *http.Request) (shared.Tenant, bool) {
	tenant, ok := shared.TenantFromContext(r.Context())
	if !ok {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "tenant identity missing")
		return shared.Tenant{}, false
	}
	return tenant, true
}

func reportIDParam(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "reportID"))
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, report.ErrReportNotFound), errors.Is(err, report.ErrFileNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, report.ErrTenantMismatch):
		httpx.Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, report.ErrMalformedSourceData):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Unprocessable", err.Error())
	case errors.Is(err, report.ErrStaleAggregate):
		httpx.Problem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		h.logger.Error("report handler", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func toResponse(def report.Definition) ReportResponse {
	return ReportResponse{
		ID:               def.ID,
		OrganisationID:   def.OrganisationID,
		Name:             def.Name,
		Description:      def.Description,
		SourceDataTypes:  def.SourceDataTypes,
		MimeType:         def.MimeType,
		BodyTemplate:     def.BodyTemplate,
		FilenameTemplate: def.FilenameTemplate,
		ProductIDs:       def.ProductIDs,
		CreatedAt:        def.CreatedAt,
		UpdatedAt:        def.UpdatedAt,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	tenant, ok := h.tenant(w, r)
	if !ok {
		return
	}
	var req CreateReportRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	def, err := h.service.Create(r.Context(), report.CreateParams{
		TenantID:         tenant.ID,
		OrganisationID:   req.OrganisationID,
		Name:             req.Name,
		Description:      req.Description,
		SourceDataTypes:  req.SourceDataTypes,
		MimeType:         req.MimeType,
		BodyTemplate:     req.BodyTemplate,
		FilenameTemplate: req.FilenameTemplate,
		ProductIDs:       req.ProductIDs,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(def))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tenant, ok := h.tenant(w, r)
	if !ok {
		return
	}
	page := shared.PaginationFromRequest(r)
	defs, err := h.service.List(r.Context(), tenant.ID, page.Limit, page.Offset)
	if err != nil {
		h.respondError(w, err)
		return
	}
	out := make([]ReportResponse, 0, len(defs))
	for _, def := range defs {
		out = append(out, toResponse(def))
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tenant, ok := h.tenant(w, r)
	if !ok {
		return
	}
	reportID, err := reportIDParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid report id")
		return
	}
	def, err := h.service.Get(r.Context(), tenant.ID, reportID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(def))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	tenant, ok := h.tenant(w, r)
	if !ok {
		return
	}
	reportID, err := reportIDParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid report id")
		return
	}
	var req UpdateReportRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	update := report.UpdateRequest{
		Name:             req.Name,
		Description:      req.Description,
		SourceDataTypes:  req.SourceDataTypes,
		MimeType:         req.MimeType,
		BodyTemplate:     req.BodyTemplate,
		FilenameTemplate: req.FilenameTemplate,
	}
	if req.ProductIDs != nil {
		update.ProductIDs = *req.ProductIDs
	}
	def, err := h.service.Update(r.Context(), tenant.ID, reportID, update)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(def))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	tenant, ok := h.tenant(w, r)
	if !ok {
		return
	}
	reportID, err := reportIDParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid report id")
		return
	}
	if err := h.service.Delete(r.Context(), tenant.ID, reportID); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	tenant, ok := h.tenant(w, r)
	if !ok {
		return
	}
	reportID, err := reportIDParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid report id")
		return
	}
	var req GenerateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	// Verify the report exists and belongs to the caller before queueing.
	if _, err := h.service.Get(r.Context(), tenant.ID, reportID); err != nil {
		h.respondError(w, err)
		return
	}
	payload := jobs.ReportGeneratePayload{
		TenantID:        tenant.ID,
		TenantAlias:     tenant.Alias,
		ReportID:        reportID,
		Environment:     req.Environment,
		From:            req.From,
		To:              req.To,
		TimeZone:        req.TimeZone,
		IncludeTestData: req.IncludeTestData,
	}
	if err := h.enqueue(r, payload); err != nil {
		h.logger.Error("enqueue report generation", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Queue Unavailable", "")
		return
	}
	httpx.JSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (h *Handler) files(w http.ResponseWriter, r *http.Request) {
	tenant, ok := h.tenant(w, r)
	if !ok {
		return
	}
	reportID, err := reportIDParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid report id")
		return
	}
	page := shared.PaginationFromRequest(r)
	environment := r.URL.Query().Get("environment")
	summaries, err := h.service.Files(r.Context(), tenant.ID, reportID, environment, page.Limit, page.Offset)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if summaries == nil {
		summaries = []report.FileSummary{}
	}
	httpx.JSON(w, http.StatusOK, summaries)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	tenant, ok := h.tenant(w, r)
	if !ok {
		return
	}
	reportID, err := reportIDParam(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid report id")
		return
	}
	fileID, err := uuid.Parse(chi.URLParam(r, "fileID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid file id")
		return
	}
	file, err := h.service.DownloadFile(r.Context(), tenant.ID, reportID, fileID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}
