package handlers

import (
	"net/http"

	"github.com/gridclash/arena-api/middleware"
	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(tournamentService services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: tournamentService}
}

func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var input services.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequest(w, err)
		return
	}

	t, err := h.tournamentService.Create(r.Context(), input, actor)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *models.TournamentStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.TournamentStatus(raw)
		status = &s
	}

	tournaments, err := h.tournamentService.List(r.Context(), status)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tournaments)
}

// GetByID works for anonymous callers too; room credentials only appear
// for admins and registered participants.
func (h *TournamentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamInt(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	var actor *services.Actor
	if a, err := middleware.ActorFromContext(r.Context()); err == nil {
		actor = &a
	}

	t, err := h.tournamentService.GetByID(r.Context(), id, actor)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TournamentHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var input services.UpdateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequest(w, err)
		return
	}

	t, err := h.tournamentService.Update(r.Context(), id, input, actor)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	if err := h.tournamentService.Delete(r.Context(), id, actor); err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "tournament deleted"})
}

func (h *TournamentHandler) UploadBanner(w http.ResponseWriter, r *http.Request) {
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

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("banner")
	if err != nil {
		errorResponse(w, http.StatusBadRequest, "banner file is required")
		return
	}
	defer file.Close()

	t, err := h.tournamentService.UploadBanner(r.Context(), id, header.Header.Get("Content-Type"), file, actor)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
