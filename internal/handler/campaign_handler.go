package handler

import (
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"

	"github.com/ulrichyv/mailing/internal/contacts"
	"github.com/ulrichyv/mailing/internal/service"
)

const maxUploadSize = 10 << 20 // 10 MiB contact files

// CampaignHandler handles campaign HTTP requests
type CampaignHandler struct {
	campaignService service.CampaignService
	logger          *slog.Logger
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignService service.CampaignService, logger *slog.Logger) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
		logger:          logger,
	}
}

// Dispatch handles POST /campaigns/dispatch. The request is either a JSON
// body with inline contacts, or multipart/form-data with a "request" JSON
// field and a "contacts" CSV file.
func (h *CampaignHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCampaignRequest(w, r)
	if !ok {
		return
	}

	result, err := h.campaignService.Run(r.Context(), req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// Preview handles POST /campaigns/preview
func (h *CampaignHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req service.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
		return
	}

	result, err := h.campaignService.Preview(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// InspectContacts handles POST /contacts/inspect: upload a CSV contact
// file and get back per-channel eligibility counts.
func (h *CampaignHandler) InspectContacts(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "expected multipart form with a contacts file")
		return
	}

	file, _, err := r.FormFile("contacts")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "contacts file is required")
		return
	}
	defer file.Close()

	list, err := contacts.ParseCSV(file)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, h.campaignService.Inspect(list))
}

func (h *CampaignHandler) decodeCampaignRequest(w http.ResponseWriter, r *http.Request) (*service.CampaignRequest, bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req service.CampaignRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON format")
			return nil, false
		}
		return &req, true
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "malformed multipart form")
		return nil, false
	}

	var req service.CampaignRequest
	if err := json.Unmarshal([]byte(r.FormValue("request")), &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "request field must be valid JSON")
		return nil, false
	}

	file, _, err := r.FormFile("contacts")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "contacts file is required")
		return nil, false
	}
	defer file.Close()

	list, err := contacts.ParseCSV(file)
	if err != nil {
		handleError(w, err, h.logger)
		return nil, false
	}
	req.Contacts = list

	return &req, true
}
