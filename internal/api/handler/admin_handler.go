package handler

import (
	"logicode/internal/api/middleware"
	"logicode/internal/app/service"
	"logicode/internal/common"
	"logicode/internal/domain/model"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	adminService    *service.AdminService
	questionService *service.QuestionService
	resolver        middleware.SessionResolver
}

func NewAdminHandler(as *service.AdminService, qs *service.QuestionService, resolver middleware.SessionResolver) *AdminHandler {
	return &AdminHandler{adminService: as, questionService: qs, resolver: resolver}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator(h.resolver))
	r.Use(middleware.AdminOnly)

	r.Get("/stats", h.stats)
	r.Get("/questions", h.listQuestions) // GET /api/v1/admin/questions?status=pending
	r.Post("/questions/{questionID}/approve", h.approveQuestion)
	r.Post("/questions/{questionID}/reject", h.rejectQuestion)
	r.Delete("/questions/{questionID}", h.deleteQuestion)
	r.Get("/users", h.listUsers)
	r.Delete("/users/{userID}", h.deleteUser)
	r.Post("/reset", h.reset)
}

func (h *AdminHandler) stats(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	stats, err := h.adminService.Stats(r.Context(), sess)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) listQuestions(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	status := model.QuestionStatus(r.URL.Query().Get("status"))
	questions, err := h.questionService.ListByStatus(r.Context(), sess, status)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, questions)
}

func (h *AdminHandler) approveQuestion(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	q, err := h.questionService.Approve(r.Context(), sess, chi.URLParam(r, "questionID"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, q)
}

func (h *AdminHandler) rejectQuestion(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	q, err := h.questionService.Reject(r.Context(), sess, chi.URLParam(r, "questionID"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, q)
}

func (h *AdminHandler) deleteQuestion(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	if err := h.questionService.Delete(r.Context(), sess, chi.URLParam(r, "questionID")); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	users, err := h.adminService.ListUsers(r.Context(), sess)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	if err := h.adminService.DeleteUser(r.Context(), sess, chi.URLParam(r, "userID")); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) reset(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	if err := h.adminService.Reset(r.Context(), sess); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
