package handler

import (
	"encoding/json"
	"logicode/internal/api/middleware"
	"logicode/internal/app/service"
	"logicode/internal/common"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type QuestionHandler struct {
	questionService *service.QuestionService
	resolver        middleware.SessionResolver
}

func NewQuestionHandler(qs *service.QuestionService, resolver middleware.SessionResolver) *QuestionHandler {
	return &QuestionHandler{questionService: qs, resolver: resolver}
}

// RegisterRoutes mounts /questions and /answers on r.
func (h *QuestionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/questions", func(qr chi.Router) {
		qr.Group(func(public chi.Router) {
			public.Use(middleware.OptionalSession(h.resolver))
			public.Get("/", h.listQuestions)                   // GET /api/v1/questions?tag=arrays
			public.Get("/{questionID}", h.getQuestion)         // GET /api/v1/questions/{id}
			public.Get("/{questionID}/answers", h.listAnswers) // GET /api/v1/questions/{id}/answers
		})
		qr.Group(func(authed chi.Router) {
			authed.Use(middleware.Authenticator(h.resolver))
			authed.Post("/", h.submitQuestion)
			authed.Post("/{questionID}/answers", h.submitAnswer)
		})
	})

	r.With(middleware.Authenticator(h.resolver)).Post("/answers/{answerID}/vote", h.vote)
}

func (h *QuestionHandler) listQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.questionService.ListPublic(r.Context(), r.URL.Query().Get("tag"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, questions)
}

func (h *QuestionHandler) getQuestion(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	q, err := h.questionService.Get(r.Context(), sess, chi.URLParam(r, "questionID"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, q)
}

func (h *QuestionHandler) listAnswers(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	answers, err := h.questionService.Answers(r.Context(), sess, chi.URLParam(r, "questionID"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, answers)
}

func (h *QuestionHandler) submitQuestion(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	sess, _ := middleware.GetSessionFromContext(r.Context())
	q, err := h.questionService.Submit(r.Context(), sess, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, q)
}

func (h *QuestionHandler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	sess, _ := middleware.GetSessionFromContext(r.Context())
	a, err := h.questionService.SubmitAnswer(r.Context(), sess, chi.URLParam(r, "questionID"), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, a)
}

func (h *QuestionHandler) vote(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	a, err := h.questionService.Vote(r.Context(), sess, chi.URLParam(r, "answerID"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, a)
}
