package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/scrybe/scrybe-backend/internal/application/auth"
	"github.com/scrybe/scrybe-backend/internal/application/cover"
	"github.com/scrybe/scrybe-backend/internal/application/story"
	"github.com/scrybe/scrybe-backend/internal/application/user"
	"github.com/scrybe/scrybe-backend/internal/config"
	googleinfra "github.com/scrybe/scrybe-backend/internal/infrastructure/google"
	jwtinfra "github.com/scrybe/scrybe-backend/internal/infrastructure/jwt"
	"github.com/scrybe/scrybe-backend/internal/infrastructure/smtp"
	"github.com/scrybe/scrybe-backend/internal/transport/http/handler"
	appmiddleware "github.com/scrybe/scrybe-backend/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo       UserRepository
	StoryRepo      StoryRepository
	Mailer         smtp.Mailer
	GoogleVerifier *googleinfra.Verifier
	JWTProvider    *jwtinfra.Provider
	TextGenerator  TextGenerator
	ImageGenerator ImageGenerator
	CoverStore     CoverStore

	// CoversDir, when non-empty, is served at /covers/* for locally stored
	// cover images. Left empty when covers live in S3.
	CoversDir string
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider, deps.UserRepo)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:       deps.UserRepo,
		Mailer:         deps.Mailer,
		GoogleVerifier: deps.GoogleVerifier,
		JWTProvider:    deps.JWTProvider,
	})
	storySvc := story.NewService(story.ServiceDeps{
		StoryRepo:     deps.StoryRepo,
		TextGenerator: deps.TextGenerator,
	})
	coverSvc := cover.NewService(cover.ServiceDeps{
		StoryRepo:      deps.StoryRepo,
		TextGenerator:  deps.TextGenerator,
		ImageGenerator: deps.ImageGenerator,
		CoverStore:     deps.CoverStore,
	})
	userSvc := user.NewService(deps.UserRepo, deps.StoryRepo)

	healthH := handler.NewHealthHandler(cfg)
	authH := handler.NewAuthHandler(authSvc)
	storyH := handler.NewStoryHandler(storySvc, coverSvc)
	userH := handler.NewUserHandler(userSvc)

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health", healthH.Health)
		r.With(sensitiveRL.Limit).Post("/signup", authH.Signup)
		r.With(sensitiveRL.Limit).Post("/verify-otp", authH.VerifyOTP)
		r.With(sensitiveRL.Limit).Post("/login", authH.Login)
		r.With(sensitiveRL.Limit).Post("/login/google", authH.LoginGoogle)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/continue_story", storyH.Continue)
			r.Post("/stories", storyH.Create)
			r.Get("/stories", storyH.List)
			r.Get("/stories/{id}", storyH.Get)
			r.Post("/stories/{id}/generate_cover", storyH.GenerateCover)

			r.Get("/users/me", userH.Me)
			r.Put("/users/me/ai_name", userH.UpdateAIName)
			r.Get("/users/me/stats", userH.Stats)
		})
	})

	if deps.CoversDir != "" {
		fs := http.StripPrefix("/covers/", http.FileServer(http.Dir(deps.CoversDir)))
		r.Get("/covers/*", fs.ServeHTTP)
	}

	return r
}
