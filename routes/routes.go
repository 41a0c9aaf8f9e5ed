package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/gridclash/arena-api/docs"
	"github.com/gridclash/arena-api/handlers"
	"github.com/gridclash/arena-api/middleware"
)

type Handlers struct {
	Auth         *handlers.AuthHandler
	User         *handlers.UserHandler
	Team         *handlers.TeamHandler
	Tournament   *handlers.TournamentHandler
	Registration *handlers.RegistrationHandler
	Notification *handlers.NotificationHandler
	Admin        *handlers.AdminHandler
	WebSocket    *handlers.WebSocketHandler
}

// New assembles the full router: public reads, session-protected
// mutations, and the admin subtree.
func New(h Handlers, auth *middleware.Authenticator, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(r chi.Router) {
		// Public surface.
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)
		r.Get("/teams", h.Team.List)
		r.Get("/teams/{id}", h.Team.GetByID)
		r.Get("/tournaments", h.Tournament.List)
		// Tournament detail reveals room credentials to admins and
		// registered users, so the token is honored when present.
		r.With(auth.OptionalAuthenticate).Get("/tournaments/{id}", h.Tournament.GetByID)

		// Session-protected surface.
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)

			r.Post("/logout", h.Auth.Logout)
			r.Get("/user", h.Auth.Me)
			r.Put("/user", h.User.UpdateProfile)

			r.Post("/teams", h.Team.Create)
			r.Post("/teams/join", h.Team.Join)
			r.Get("/teams/mine", h.Team.ListMine)
			r.Put("/teams/{id}", h.Team.Update)
			r.Delete("/teams/{id}", h.Team.Delete)
			r.Post("/teams/{id}/members", h.Team.AddMember)
			r.Delete("/teams/{id}/members/{memberID}", h.Team.RemoveMember)
			r.Post("/teams/{id}/logo", h.Team.UploadLogo)

			r.Post("/tournaments/{id}/register", h.Registration.Register)
			r.Post("/registrations", h.Registration.Register)
			r.Get("/registrations", h.Registration.ListMine)
			r.Delete("/registrations/{id}", h.Registration.Unregister)
			r.Get("/tournaments/{id}/registrations", h.Registration.ListByTournament)

			r.Get("/notifications", h.Notification.List)
			r.Get("/notifications/unread", h.Notification.UnreadCount)
			r.Put("/notifications/{id}/read", h.Notification.MarkRead)
			r.Post("/notifications/read/{id}", h.Notification.MarkRead)
		})

		// Admin surface.
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.RequireAdmin)

			r.Get("/users", h.User.List)
			r.Get("/users/{id}", h.User.GetByID)
			r.Delete("/users/{id}", h.User.Delete)

			r.Post("/tournaments", h.Tournament.Create)
			r.Put("/tournaments/{id}", h.Tournament.Update)
			r.Delete("/tournaments/{id}", h.Tournament.Delete)
			r.Post("/tournaments/{id}/banner", h.Tournament.UploadBanner)

			r.Put("/registrations/{id}", h.Registration.Update)
			r.Post("/notifications", h.Notification.Create)

			r.Get("/admin/dashboard", h.Admin.Dashboard)
			r.Put("/admin/users/{id}/role", h.Admin.SetRole)
		})
	})

	// Auth happens in-band: the client's first frame is the auth message.
	r.Get("/ws", h.WebSocket.Serve)

	r.Get("/swagger/doc.json", docs.SpecHandler)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}
