package handlers

import (
	"net/http"

	"github.com/gridclash/arena-api/middleware"
	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/services"
)

type AdminHandler struct {
	adminService     services.AdminService
	dashboardService services.DashboardService
}

func NewAdminHandler(adminService services.AdminService, dashboardService services.DashboardService) *AdminHandler {
	return &AdminHandler{
		adminService:     adminService,
		dashboardService: dashboardService,
	}
}

// SetRole promotes or demotes a user. Protected accounts refuse
// demotion regardless of the caller.
func (h *AdminHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	userID, err := urlParamInt(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	var input struct {
		Role models.UserRole `json:"role"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequest(w, err)
		return
	}

	user, err := h.adminService.SetRole(r.Context(), userID, input.Role, actor)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	user.PasswordHash = ""
	writeJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	stats, err := h.dashboardService.Stats(r.Context(), actor)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
