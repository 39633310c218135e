package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/litblc/account-service/internal/application"
	"github.com/litblc/account-service/internal/infrastructure/config"
	"github.com/litblc/account-service/internal/infrastructure/database"
	"github.com/litblc/account-service/internal/infrastructure/email"
	"github.com/litblc/account-service/internal/infrastructure/jwt"
	"github.com/litblc/account-service/internal/infrastructure/oauth"
	appratelimit "github.com/litblc/account-service/internal/infrastructure/ratelimit"
	redisstore "github.com/litblc/account-service/internal/infrastructure/redis"
	"github.com/litblc/account-service/internal/infrastructure/repository"
	"github.com/litblc/account-service/internal/infrastructure/sms"
	"github.com/litblc/account-service/internal/infrastructure/verification"
	"github.com/litblc/account-service/internal/interfaces/http/handlers"
	"github.com/litblc/account-service/internal/interfaces/http/middleware/auth"
	"github.com/litblc/account-service/internal/interfaces/http/middleware/ratelimit"
	"go.uber.org/zap"
)

type Router struct {
	router      *chi.Mux
	db          *database.Postgres
	kv          *redisstore.Client
	rateLimiter *ratelimit.RateLimiter
}

func NewRouter(
	db *database.Postgres,
	kv *redisstore.Client,
	cfg *config.Config,
	logger *zap.Logger,
) (*Router, error) {
	tokenService, err := jwt.New(cfg.JWTAccessDuration, logger)
	if err != nil {
		return nil, err
	}

	smsService, err := sms.NewService(cfg, logger)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db, logger)
	emailService := email.NewService(cfg, logger)
	codeStore := verification.NewStore(kv, logger)
	limiter := appratelimit.New(kv, logger)
	githubProvider := oauth.NewGithubProvider(cfg, logger)

	authService := application.NewAuthService(userRepo, codeStore, limiter, tokenService, emailService, smsService, logger)
	profileService := application.NewProfileService(userRepo, logger)
	oauthService := application.NewOAuthService(userRepo, githubProvider, tokenService, logger)

	authMiddleware := auth.NewAuthMiddleware(tokenService, logger)
	authHandler := handlers.NewAuthHandler(authService, logger)
	profileHandler := handlers.NewProfileHandler(profileService, logger)
	oauthHandler := handlers.NewOAuthHandler(oauthService, cfg.GithubClientID, logger)

	router := createRouter()

	rateLimiter := ratelimit.NewRateLimiter(100, 200, 3*time.Minute)
	router.Use(rateLimiter.Middleware)

	// Health check endpoints
	router.Group(func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
			if err := db.Ping(); err != nil {
				logger.Error("Database health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("Database connection failed"))
				return
			}
			if err := kv.Ping(r.Context()); err != nil {
				logger.Error("Redis health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte("Redis connection failed"))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Ready"))
		})

		r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Alive"))
		})
	})

	router.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Group(func(r chi.Router) {
			r.Post("/register/code", authHandler.SendRegisterCodeHandler)
			r.Post("/password/code", authHandler.SendPasswordCodeHandler)
			r.Post("/register", authHandler.RegisterHandler)
			r.Post("/login", authHandler.LoginHandler)
			r.Post("/password", authHandler.ChangePasswordHandler)
			r.Get("/account/status", authHandler.AccountStatusHandler)
			r.Get("/users/{uuid}", profileHandler.GetUserHandler)
			r.Get("/oauth/github/login", oauthHandler.GithubLoginHandler)
			r.Get("/oauth/github/callback", oauthHandler.GithubCallbackHandler)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticator)
			r.Get("/me", profileHandler.MyInfoHandler)
			r.Put("/me", profileHandler.UpdateMyInfoHandler)
			r.Put("/me/name", profileHandler.UpdateMyNameHandler)
			r.Post("/logout", authHandler.LogoutHandler)
		})
	})

	return &Router{router: router, db: db, kv: kv, rateLimiter: rateLimiter}, nil
}

// Close stops the router's background workers.
func (r *Router) Close() {
	r.rateLimiter.Stop()
}

func createRouter() *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Timeout(60 * time.Second))

	return router
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
