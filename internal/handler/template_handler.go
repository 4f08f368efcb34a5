package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ulrichyv/mailing/internal/models"
	"github.com/ulrichyv/mailing/internal/service"
)

// TemplateHandler handles template HTTP requests
type TemplateHandler struct {
	templateService service.TemplateService
	logger          *slog.Logger
}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler(templateService service.TemplateService, logger *slog.Logger) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
		logger:          logger,
	}
}

// CreateEmail handles POST /templates/email
func (h *TemplateHandler) CreateEmail(w http.ResponseWriter, r *http.Request) {
	var tmpl models.EmailTemplate
	if err := json.NewDecoder(r.Body).Decode(&tmpl); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	if err := h.templateService.CreateEmail(r.Context(), &tmpl); err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, tmpl)
}

// ListEmail handles GET /templates/email
func (h *TemplateHandler) ListEmail(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templateService.ListEmail(r.Context())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondSuccess(w, templates)
}

// GetEmail handles GET /templates/email/{name}
func (h *TemplateHandler) GetEmail(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.templateService.GetEmail(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondSuccess(w, tmpl)
}

// DeleteEmail handles DELETE /templates/email/{name}
func (h *TemplateHandler) DeleteEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.templateService.DeleteEmail(r.Context(), chi.URLParam(r, "name")); err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// CreateSMS handles POST /templates/sms
func (h *TemplateHandler) CreateSMS(w http.ResponseWriter, r *http.Request) {
	var tmpl models.SMSTemplate
	if err := json.NewDecoder(r.Body).Decode(&tmpl); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	if err := h.templateService.CreateSMS(r.Context(), &tmpl); err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, tmpl)
}

// ListSMS handles GET /templates/sms
func (h *TemplateHandler) ListSMS(w http.ResponseWriter, r *http.Request) {
	templates, err := h.templateService.ListSMS(r.Context())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondSuccess(w, templates)
}

// GetSMS handles GET /templates/sms/{name}
func (h *TemplateHandler) GetSMS(w http.ResponseWriter, r *http.Request) {
	tmpl, err := h.templateService.GetSMS(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondSuccess(w, tmpl)
}

// DeleteSMS handles DELETE /templates/sms/{name}
func (h *TemplateHandler) DeleteSMS(w http.ResponseWriter, r *http.Request) {
	if err := h.templateService.DeleteSMS(r.Context(), chi.URLParam(r, "name")); err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Convert handles POST /templates/convert
func (h *TemplateHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var req service.ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	sms, err := h.templateService.ConvertToSMS(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, sms)
}
