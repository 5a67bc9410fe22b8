package api

import (
	"logicode/internal/api/handler"
	"logicode/internal/api/middleware"
	"logicode/internal/app/service"
	"logicode/internal/common/security"
	"logicode/internal/platform/metrics"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type RouterOptions struct {
	Tokens                 *security.TokenIssuer
	Logger                 *zap.Logger
	CORSAllowedOrigins     []string
	AuthRateLimitPerMinute int
}

func NewRouter(
	opts RouterOptions,
	authService *service.AuthService,
	challengeService *service.ChallengeService,
	questionService *service.QuestionService,
	adminService *service.AdminService,
	dashboardService *service.DashboardService,
) http.Handler {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger.Named("http")))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(metrics.Middleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   opts.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	// Verifies a token from "Authorization: Bearer T" or the jwt cookie and
	// puts the claims in the request context.
	r.Use(jwtauth.Verifier(opts.Tokens.Auth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService, opts.Tokens.TTL(), middleware.NewRateLimiter(opts.AuthRateLimitPerMinute))
		v1.Route("/auth", authHandler.RegisterRoutes)

		challengeHandler := handler.NewChallengeHandler(challengeService, authService)
		v1.Route("/challenges", challengeHandler.RegisterRoutes)

		dashboardHandler := handler.NewDashboardHandler(dashboardService, authService)
		v1.Group(dashboardHandler.RegisterRoutes)

		questionHandler := handler.NewQuestionHandler(questionService, authService)
		v1.Group(questionHandler.RegisterRoutes)

		adminHandler := handler.NewAdminHandler(adminService, questionService, authService)
		v1.Route("/admin", adminHandler.RegisterRoutes)
	})

	return r
}
