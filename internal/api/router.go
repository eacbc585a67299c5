package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/kuowesley/securebank-technical-challenge/internal/api/handlers"
	"github.com/kuowesley/securebank-technical-challenge/internal/api/middleware"
	"github.com/kuowesley/securebank-technical-challenge/internal/service"
)

func NewRouter(services *service.Services) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth)
	accountHandler := handlers.NewAccountHandler(services.Account)

	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.SessionAuth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionAuth(services.Auth))

			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", accountHandler.Create)
				r.Get("/", accountHandler.List)
				r.Post("/{id}/fund", accountHandler.Fund)
				r.Get("/{id}/transactions", accountHandler.Transactions)
			})
		})
	})

	return r
}
