package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/mikesz88/ghostMammothsPB-sub000/docs"
	"github.com/mikesz88/ghostMammothsPB-sub000/handlers"
	"github.com/mikesz88/ghostMammothsPB-sub000/middleware"
	"github.com/mikesz88/ghostMammothsPB-sub000/models"
)

// Handlers bundles everything SetupRoutes mounts.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Event     *handlers.EventHandler
	Queue     *handlers.QueueHandler
	Game      *handlers.GameHandler
	Activity  *handlers.ActivityHandler
	WebSocket *handlers.WebSocketHandler
}

func SetupRoutes(h Handlers, jwtSecret string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate([]byte(jwtSecret))
	adminOnly := middleware.Authorize(models.RoleAdmin)

	router.Post("/auth/register", h.Auth.Register)
	router.Post("/auth/login", h.Auth.Login)

	router.Get("/swagger/doc.json", docs.ServeOpenAPI)
	router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	router.Get("/ws/events/{eventID}", h.WebSocket.ServeWs)

	router.Route("/events", func(r chi.Router) {
		r.Get("/", h.Event.List)
		r.Get("/{eventID}", h.Event.Get)
		r.Get("/{eventID}/queue", h.Queue.List)
		r.Get("/{eventID}/courts", h.Game.ListActive)
		r.Get("/{eventID}/games", h.Game.ListHistory)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/{eventID}/queue", h.Queue.Join)
			r.Delete("/{eventID}/queue", h.Queue.Leave)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)

				r.Post("/", h.Event.Create)
				r.Put("/{eventID}", h.Event.Update)
				r.Delete("/{eventID}", h.Event.Delete)
				r.Put("/{eventID}/photo", h.Event.UploadPhoto)

				r.Delete("/{eventID}/queue/{userID}", h.Queue.Remove)
				r.Post("/{eventID}/courts/fill", h.Game.FillCourt)
				r.Post("/{eventID}/games/{assignmentID}/complete", h.Game.CompleteGame)
			})
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(adminOnly)
		r.Get("/admin/activity", h.Activity.Recent)
	})

	return router
}
