package handler

import (
	"logicode/internal/api/middleware"
	"logicode/internal/app/service"
	"logicode/internal/common"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	resolver         middleware.SessionResolver
}

func NewDashboardHandler(ds *service.DashboardService, resolver middleware.SessionResolver) *DashboardHandler {
	return &DashboardHandler{dashboardService: ds, resolver: resolver}
}

func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/leaderboard", h.leaderboard) // GET /api/v1/leaderboard?limit=10
	r.With(middleware.Authenticator(h.resolver)).Get("/dashboard", h.dashboard)
}

func (h *DashboardHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	d, err := h.dashboardService.Dashboard(r.Context(), sess)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, d)
}

func (h *DashboardHandler) leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 0 || limit > 100 {
		limit = 100
	}
	entries, err := h.dashboardService.Leaderboard(r.Context(), limit)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, entries)
}
