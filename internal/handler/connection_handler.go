package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ulrichyv/mailing/internal/models"
	"github.com/ulrichyv/mailing/internal/service"
)

// ConnectionHandler handles provider connection HTTP requests
type ConnectionHandler struct {
	connectionService service.ConnectionService
	logger            *slog.Logger
}

// NewConnectionHandler creates a new connection handler
func NewConnectionHandler(connectionService service.ConnectionService, logger *slog.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		connectionService: connectionService,
		logger:            logger,
	}
}

// CreateSMTP handles POST /connections/smtp
func (h *ConnectionHandler) CreateSMTP(w http.ResponseWriter, r *http.Request) {
	var conn models.SMTPConnection
	if err := json.NewDecoder(r.Body).Decode(&conn); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	if err := h.connectionService.CreateSMTP(r.Context(), &conn); err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, conn)
}

// ListSMTP handles GET /connections/smtp
func (h *ConnectionHandler) ListSMTP(w http.ResponseWriter, r *http.Request) {
	conns, err := h.connectionService.ListSMTP(r.Context())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondSuccess(w, conns)
}

// DeleteSMTP handles DELETE /connections/smtp/{name}
func (h *ConnectionHandler) DeleteSMTP(w http.ResponseWriter, r *http.Request) {
	if err := h.connectionService.DeleteSMTP(r.Context(), chi.URLParam(r, "name")); err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// CreateSMS handles POST /connections/sms
func (h *ConnectionHandler) CreateSMS(w http.ResponseWriter, r *http.Request) {
	var conn models.SMSConnection
	if err := json.NewDecoder(r.Body).Decode(&conn); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	if err := h.connectionService.CreateSMS(r.Context(), &conn); err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, conn)
}

// ListSMS handles GET /connections/sms
func (h *ConnectionHandler) ListSMS(w http.ResponseWriter, r *http.Request) {
	conns, err := h.connectionService.ListSMS(r.Context())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondSuccess(w, conns)
}

// DeleteSMS handles DELETE /connections/sms/{name}
func (h *ConnectionHandler) DeleteSMS(w http.ResponseWriter, r *http.Request) {
	if err := h.connectionService.DeleteSMS(r.Context(), chi.URLParam(r, "name")); err != nil {
		handleError(w, err, h.logger)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
