package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/encounter-engine/internal/storage"
	"github.com/jwebster45206/encounter-engine/pkg/profile"
)

// ProfileHandler manages saved genre profiles.
//
// Routes:
//
//	GET  /v1/profiles        - List saved profiles
//	GET  /v1/profiles/{id}   - Get one profile
//	POST /v1/profiles        - Save a profile
type ProfileHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewProfileHandler(storage storage.Storage, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		storage: storage,
		logger:  logger,
	}
}

func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := strings.TrimPrefix(r.URL.Path, "/v1/profiles")
	id = strings.Trim(id, "/")

	switch {
	case r.Method == http.MethodGet && id == "":
		h.list(w, r)
	case r.Method == http.MethodGet:
		h.get(w, r, id)
	case r.Method == http.MethodPost && id == "":
		h.save(w, r)
	default:
		h.writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *ProfileHandler) list(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.storage.ListProfiles(r.Context())
	if err != nil {
		h.logger.Error("Failed to list profiles", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list profiles")
		return
	}
	h.writeJSON(w, http.StatusOK, profiles)
}

func (h *ProfileHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.storage.LoadProfile(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load profile", "error", err, "id", id)
		h.writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if p == nil {
		h.writeError(w, http.StatusNotFound, "profile not found")
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) save(w http.ResponseWriter, r *http.Request) {
	var p profile.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if p.ID == "" {
		h.writeError(w, http.StatusBadRequest, "profile id is required")
		return
	}

	// Reject profiles the resolver would refuse outright; saving a profile
	// that can only ever fall back to the default is a user mistake.
	if _, err := profile.Resolve(p); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.storage.SaveProfile(r.Context(), &p); err != nil {
		h.logger.Error("Failed to save profile", "error", err, "id", p.ID)
		h.writeError(w, http.StatusInternalServerError, "failed to save profile")
		return
	}
	h.writeJSON(w, http.StatusOK, p)
}

func (h *ProfileHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		h.logger.Error("Error encoding error response", "error", err)
	}
}

func (h *ProfileHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error encoding response", "error", err)
	}
}
