package handler

import (
	"encoding/json"
	"logicode/internal/api/middleware"
	"logicode/internal/app/service"
	"logicode/internal/common"
	"logicode/internal/domain/model"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ChallengeHandler struct {
	challengeService *service.ChallengeService
	resolver         middleware.SessionResolver
}

func NewChallengeHandler(cs *service.ChallengeService, resolver middleware.SessionResolver) *ChallengeHandler {
	return &ChallengeHandler{challengeService: cs, resolver: resolver}
}

func (h *ChallengeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listChallenges) // GET /api/v1/challenges

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator(h.resolver))
		authed.Get("/{challengeRef}", h.viewChallenge)          // GET /api/v1/challenges/5 or /fibonacci-recursivo
		authed.Post("/{challengeRef}/submit", h.submitSolution) // POST /api/v1/challenges/5/submit

		authed.With(middleware.AdminOnly).Post("/", h.createChallenge)
		authed.With(middleware.AdminOnly).Put("/{challengeRef}", h.updateChallenge)
	})
}

type submitSolutionRequest struct {
	Code string `json:"code"`
}

func (h *ChallengeHandler) listChallenges(w http.ResponseWriter, r *http.Request) {
	challenges, err := h.challengeService.List(r.Context())
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, challenges)
}

func (h *ChallengeHandler) viewChallenge(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	challenge, err := h.challengeService.View(r.Context(), sess, chi.URLParam(r, "challengeRef"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, challenge)
}

func (h *ChallengeHandler) submitSolution(w http.ResponseWriter, r *http.Request) {
	var req submitSolutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	sess, _ := middleware.GetSessionFromContext(r.Context())
	result, err := h.challengeService.Submit(r.Context(), sess, chi.URLParam(r, "challengeRef"), req.Code)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *ChallengeHandler) createChallenge(w http.ResponseWriter, r *http.Request) {
	var challenge model.Challenge
	if err := json.NewDecoder(r.Body).Decode(&challenge); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	sess, _ := middleware.GetSessionFromContext(r.Context())
	if err := h.challengeService.Create(r.Context(), sess, &challenge); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, challenge)
}

func (h *ChallengeHandler) updateChallenge(w http.ResponseWriter, r *http.Request) {
	var challenge model.Challenge
	if err := json.NewDecoder(r.Body).Decode(&challenge); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	current, err := h.challengeService.Get(r.Context(), chi.URLParam(r, "challengeRef"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	challenge.ID = current.ID

	sess, _ := middleware.GetSessionFromContext(r.Context())
	if err := h.challengeService.Update(r.Context(), sess, &challenge); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, challenge)
}
