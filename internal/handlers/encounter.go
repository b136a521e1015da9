package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/encounter-engine/internal/engine"
	"github.com/jwebster45206/encounter-engine/pkg/combatant"
	"github.com/jwebster45206/encounter-engine/pkg/encounter"
	"github.com/jwebster45206/encounter-engine/pkg/profile"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// EncounterHandler exposes the engine's host-UI command surface.
//
// Routes:
//
//	GET    /v1/encounter                    - Current session
//	POST   /v1/encounter/start              - Start (offers resume if persisted)
//	POST   /v1/encounter/resume             - Resume the persisted session
//	POST   /v1/encounter/discard            - Discard the persisted session
//	POST   /v1/encounter/configure          - Set the genre profile
//	POST   /v1/encounter/begin              - Initialize the encounter
//	POST   /v1/encounter/action             - Submit a player action
//	POST   /v1/encounter/regenerate         - Regenerate a narrative entry
//	POST   /v1/encounter/swipe              - Navigate a log entry's swipes
//	POST   /v1/encounter/approve            - Approve a pending entity
//	POST   /v1/encounter/reject             - Reject a pending entity
//	POST   /v1/encounter/combatants         - Add a combatant manually
//	PATCH  /v1/encounter/combatants/{name}  - Edit a combatant
//	DELETE /v1/encounter/combatants/{name}  - Delete a combatant
//	POST   /v1/encounter/conclude           - Conclude the encounter
type EncounterHandler struct {
	engine *engine.Engine
	logger *slog.Logger
}

func NewEncounterHandler(eng *engine.Engine, logger *slog.Logger) *EncounterHandler {
	return &EncounterHandler{
		engine: eng,
		logger: logger,
	}
}

func (h *EncounterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.TrimPrefix(r.URL.Path, "/v1/encounter")
	path = strings.TrimPrefix(path, "/")

	switch {
	case path == "" && r.Method == http.MethodGet:
		h.getSession(w)
	case path == "start" && r.Method == http.MethodPost:
		h.start(w, r)
	case path == "resume" && r.Method == http.MethodPost:
		h.simple(w, h.engine.Resume(r.Context()))
	case path == "discard" && r.Method == http.MethodPost:
		h.simple(w, h.engine.Discard(r.Context()))
	case path == "configure" && r.Method == http.MethodPost:
		h.configure(w, r)
	case path == "begin" && r.Method == http.MethodPost:
		h.begin(w, r)
	case path == "action" && r.Method == http.MethodPost:
		h.action(w, r)
	case path == "regenerate" && r.Method == http.MethodPost:
		h.regenerate(w, r)
	case path == "swipe" && r.Method == http.MethodPost:
		h.swipe(w, r)
	case path == "approve" && r.Method == http.MethodPost:
		h.pending(w, r, true)
	case path == "reject" && r.Method == http.MethodPost:
		h.pending(w, r, false)
	case path == "combatants" && r.Method == http.MethodPost:
		h.addCombatant(w, r)
	case strings.HasPrefix(path, "combatants/") && r.Method == http.MethodPatch:
		h.editCombatant(w, r, strings.TrimPrefix(path, "combatants/"))
	case strings.HasPrefix(path, "combatants/") && r.Method == http.MethodDelete:
		h.deleteCombatant(w, r, strings.TrimPrefix(path, "combatants/"))
	case path == "conclude" && r.Method == http.MethodPost:
		h.conclude(w, r)
	default:
		h.writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *EncounterHandler) getSession(w http.ResponseWriter) {
	session := h.engine.Session()
	if session == nil {
		h.writeError(w, http.StatusNotFound, "no active session")
		return
	}
	h.writeJSON(w, http.StatusOK, session)
}

type startResponse struct {
	Session   *encounter.Session `json:"session"`
	Resumable *encounter.Session `json:"resumable,omitempty"`
}

func (h *EncounterHandler) start(w http.ResponseWriter, r *http.Request) {
	resumable, err := h.engine.Start(r.Context())
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, startResponse{
		Session:   h.engine.Session(),
		Resumable: resumable,
	})
}

func (h *EncounterHandler) configure(w http.ResponseWriter, r *http.Request) {
	var raw profile.Profile
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.simple(w, h.engine.Configure(raw))
}

func (h *EncounterHandler) begin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Scenario string `json:"scenario"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.engine.BeginEncounter(r.Context(), req.Scenario); err != nil {
		h.writeEngineError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.engine.Session())
}

func (h *EncounterHandler) action(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.engine.SubmitAction(r.Context(), req.Action)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entry)
}

func (h *EncounterHandler) regenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntryID       int64 `json:"entry_id"`
		AlsoReconcile bool  `json:"also_reconcile"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.simple(w, h.engine.RegenerateEntry(r.Context(), req.EntryID, req.AlsoReconcile))
}

func (h *EncounterHandler) swipe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EntryID int64 `json:"entry_id"`
		Index   int   `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.simple(w, h.engine.SetActiveSwipe(r.Context(), req.EntryID, req.Index))
}

func (h *EncounterHandler) pending(w http.ResponseWriter, r *http.Request, approve bool) {
	var req struct {
		Name       string `json:"name"`
		Opposition bool   `json:"opposition"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if approve {
		h.simple(w, h.engine.ApproveEntity(r.Context(), req.Name, req.Opposition))
		return
	}
	h.simple(w, h.engine.RejectEntity(r.Context(), req.Name, req.Opposition))
}

func (h *EncounterHandler) addCombatant(w http.ResponseWriter, r *http.Request) {
	var req struct {
		combatant.Combatant
		Opposition bool `json:"opposition"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.simple(w, h.engine.AddCombatant(r.Context(), req.Combatant, req.Opposition))
}

func (h *EncounterHandler) editCombatant(w http.ResponseWriter, r *http.Request, name string) {
	var req struct {
		combatant.Patch
		Opposition bool `json:"opposition"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.simple(w, h.engine.EditCombatant(r.Context(), name, req.Patch, req.Opposition))
}

func (h *EncounterHandler) deleteCombatant(w http.ResponseWriter, r *http.Request, name string) {
	opposition := r.URL.Query().Get("side") == "opposition"
	h.simple(w, h.engine.DeleteCombatant(r.Context(), name, opposition))
}

func (h *EncounterHandler) conclude(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := h.engine.Conclude(r.Context(), engine.ConcludeReason(req.Reason))
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

// simple replies with the updated session, or an error body.
func (h *EncounterHandler) simple(w http.ResponseWriter, err error) {
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, h.engine.Session())
}

func (h *EncounterHandler) writeEngineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, encounter.ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, encounter.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, encounter.ErrOracleParse), errors.Is(err, encounter.ErrOracleTransport),
		errors.Is(err, encounter.ErrStaleRevision):
		status = http.StatusBadGateway
	}
	h.writeError(w, status, err.Error())
}

func (h *EncounterHandler) writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		h.logger.Error("Error encoding error response", "error", err)
	}
}

func (h *EncounterHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Error encoding response", "error", err)
	}
}
