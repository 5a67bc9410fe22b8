package handler

import (
	"encoding/json"
	"logicode/internal/api/middleware"
	"logicode/internal/app/service"
	"logicode/internal/common"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const tokenCookieName = "jwt"

type AuthHandler struct {
	authService *service.AuthService
	tokenTTL    time.Duration
	limiter     *middleware.RateLimiter
}

func NewAuthHandler(authService *service.AuthService, tokenTTL time.Duration, limiter *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, tokenTTL: tokenTTL, limiter: limiter}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(public chi.Router) {
		if h.limiter != nil {
			public.Use(h.limiter.Middleware)
		}
		public.Post("/register", h.register)
		public.Post("/login", h.login)
	})
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator(h.authService))
		authed.Post("/logout", h.logout)
		authed.Get("/me", h.me)
	})
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.authService.Register(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	h.setTokenCookie(w, resp.Token)
	common.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.authService.Login(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	h.setTokenCookie(w, resp.Token)
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	if err := h.authService.Logout(r.Context(), sess); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	common.RespondWithJSON(w, http.StatusOK, sess.User.Sanitized())
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
