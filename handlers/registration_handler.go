package handlers

import (
	"net/http"

	"github.com/gridclash/arena-api/middleware"
	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/services"
)

type RegistrationHandler struct {
	registrationService services.RegistrationService
}

func NewRegistrationHandler(registrationService services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var input services.RegisterTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequest(w, err)
		return
	}
	// Mounted both nested under /tournaments/{id} and flat with the
	// tournament id in the body; the path wins when present.
	if id, err := urlParamInt(r, "id"); err == nil {
		input.TournamentID = id
	}
	if input.TournamentID <= 0 {
		errorResponse(w, http.StatusBadRequest, "tournament_id is required")
		return
	}

	reg, err := h.registrationService.Register(r.Context(), input, actor)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reg)
}

// ListByTournament is admin-only; it exposes every entrant including
// payment state.
func (h *RegistrationHandler) ListByTournament(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	tournamentID, err := urlParamInt(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	registrations, err := h.registrationService.ListByTournament(r.Context(), tournamentID, actor)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, registrations)
}

// ListMine returns the authenticated user's registrations.
func (h *RegistrationHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	registrations, err := h.registrationService.ListByUser(r.Context(), userID)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, registrations)
}

func (h *RegistrationHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := urlParamInt(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	var input models.RegistrationUpdate
	if err := readJSON(w, r, &input); err != nil {
		badRequest(w, err)
		return
	}

	reg, err := h.registrationService.Update(r.Context(), id, input, actor)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

func (h *RegistrationHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id, err := urlParamInt(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	if err := h.registrationService.Unregister(r.Context(), id, actor); err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "registration cancelled"})
}
