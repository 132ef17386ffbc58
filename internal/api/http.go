// Package api exposes the caseworker HTTP surface: the user profile,
// a case's audit trail, and mid event callbacks.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/justice-gov/casedata/internal/caseaccess"
	"github.com/justice-gov/casedata/internal/casedetails"
	"github.com/justice-gov/casedata/internal/createevent"
	"github.com/justice-gov/casedata/internal/definition"
	"github.com/justice-gov/casedata/internal/getevents"
	"github.com/justice-gov/casedata/internal/profile"
	"github.com/justice-gov/casedata/internal/shared/auth"
	"github.com/justice-gov/casedata/internal/shared/errors"
	"github.com/justice-gov/casedata/internal/shared/metrics"
	"github.com/justice-gov/casedata/internal/shared/types"
)

// Handler provides the caseworker HTTP handlers
type Handler struct {
	profiles    profile.Operation
	events      getevents.Operation
	cases       *casedetails.Service
	access      *caseaccess.Service
	midEvent    *createevent.MidEventCallback
	definitions definition.Repository
}

// NewHandler creates a new caseworker handler
func NewHandler(
	profiles profile.Operation,
	events getevents.Operation,
	cases *casedetails.Service,
	access *caseaccess.Service,
	midEvent *createevent.MidEventCallback,
	definitions definition.Repository,
) *Handler {
	return &Handler{
		profiles:    profiles,
		events:      events,
		cases:       cases,
		access:      access,
		midEvent:    midEvent,
		definitions: definitions,
	}
}

// Routes registers the caseworker routes
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/profile", h.GetUserProfile)
	r.Get("/banners", h.GetBanners)

	r.Route("/jurisdictions/{jurisdictionID}/case-types/{caseTypeID}", func(r chi.Router) {
		r.Get("/cases/{caseReference}/events", h.GetCaseEvents)
		r.Get("/cases/{caseReference}/events/{eventID}", h.GetCaseEvent)
		r.Post("/event-triggers/{eventTriggerID}/mid-event", h.MidEvent)
	})

	return r
}

// --- Request/Response types ---

type MidEventRequest struct {
	PageID string                     `json:"page_id"`
	Data   map[string]json.RawMessage `json:"data"`
}

type MidEventResponse struct {
	Data map[string]json.RawMessage `json:"data"`
}

// --- Handlers ---

func (h *Handler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	userProfile, err := h.profiles.Execute(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userProfile)
}

// GetBanners returns the enabled banners for the requested
// jurisdictions.
func (h *Handler) GetBanners(w http.ResponseWriter, r *http.Request) {
	jurisdictionIDs := r.URL.Query()["jurisdiction"]

	banners, err := h.definitions.Banners(r.Context(), jurisdictionIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"banners": banners})
}

func (h *Handler) GetCaseEvents(w http.ResponseWriter, r *http.Request) {
	details, ok := h.resolveCase(w, r)
	if !ok {
		return
	}

	events, err := h.events.ForCase(r.Context(), details)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) GetCaseEvent(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.resolveCase(w, r); !ok {
		return
	}

	id, err := types.ParseID(chi.URLParam(r, "eventID"))
	if err != nil {
		writeError(w, errors.BadRequest("invalid event ID"))
		return
	}

	event, err := h.events.ByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if event == nil {
		writeError(w, errors.NotFound("audit event", id.String()))
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *Handler) MidEvent(w http.ResponseWriter, r *http.Request) {
	var req MidEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	caseTypeID := chi.URLParam(r, "caseTypeID")
	eventID := chi.URLParam(r, "eventTriggerID")

	data, err := h.midEvent.Invoke(r.Context(), caseTypeID, eventID, req.PageID, req.Data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MidEventResponse{Data: data})
}

// resolveCase loads the case behind the URL and checks the caller may
// see it. A case the caller may not see answers not found, denied and
// absent cases are indistinguishable.
func (h *Handler) resolveCase(w http.ResponseWriter, r *http.Request) (*casedetails.CaseDetails, bool) {
	reference := chi.URLParam(r, "caseReference")

	details, err := h.cases.GetCase(r.Context(), reference)
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	user := auth.GetUser(r.Context())
	if user == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return nil, false
	}

	allowed, err := h.access.CanAccess(r.Context(), user.ID, user.Roles, details.ID)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	metrics.RecordAuthorizationDecision("case", "read", allowed)
	if !allowed {
		writeError(w, errors.NotFound("case", reference))
		return nil, false
	}
	return details, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
