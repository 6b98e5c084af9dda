package http

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"motogarage/internal/auth"
	"motogarage/internal/config"
	"motogarage/internal/garage"
	"motogarage/internal/maintenance"
)

// RouterDeps bundles the services the router exposes.
type RouterDeps struct {
	Auth    *auth.Service
	Google  *auth.GoogleVerifier // nil when the browser flow is not configured
	Garage  *garage.Service
	Tasks   *maintenance.Service
	Adviser adviser
}

// NewRouter wires application routes and middleware using chi.
//
// The bearer gate runs globally and only enriches the request context; the
// 401 decision belongs to requireAuth on the protected route groups. Login
// endpoints under /auth never demand a credential.
func NewRouter(cfg config.Config, deps RouterDeps, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(newSecurityHeadersMiddleware(cfg.Environment))
	r.Use(newSlogMiddleware(logger))
	r.Use(newBearerAuthMiddleware(deps.Auth.Tokens(), deps.Auth.Directory(), logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      "ok",
			"environment": cfg.Environment,
		})
	})

	authHandler := NewAuthHandler(deps.Auth, logger)
	motoHandler := NewMotoHandler(deps.Garage, logger)
	taskHandler := NewTaskHandler(deps.Tasks, logger)
	adviceHandler := NewAdviceHandler(deps.Adviser, deps.Garage, deps.Tasks, logger)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)

		if deps.Google != nil {
			oauthHandler := NewOAuthHandler(deps.Google, deps.Auth, cfg.FrontendURL, cfg.Environment, logger)
			r.Get("/google", oauthHandler.InitiateGoogle)
			r.Get("/google/callback", oauthHandler.CallbackGoogle)
		} else {
			logger.Warn("google login flow disabled; only POST /auth/login is available")
		}

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", authHandler.Me)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(requireAuth)

		r.Route("/motorcycles", func(r chi.Router) {
			r.Get("/", motoHandler.List)
			r.Post("/", motoHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", motoHandler.Get)
				r.Put("/", motoHandler.Update)
				r.Delete("/", motoHandler.Delete)

				r.Get("/tasks", taskHandler.ListForMotorcycle)
				r.Post("/tasks", taskHandler.Create)
				r.Get("/advice", adviceHandler.Advise)
			})
		})

		r.Route("/tasks/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.Get)
			r.Put("/", taskHandler.Update)
			r.Post("/complete", taskHandler.Complete)
			r.Delete("/", taskHandler.Delete)
		})
	})

	r.NotFound(http.NotFoundHandler().ServeHTTP)

	return r
}
