package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/openseries/roster-system/handlers"
	"github.com/openseries/roster-system/middleware"
)

// SetupRoutes mounts the roster API. Reads are public; every mutation sits
// behind the session check plus the anti-forgery token check. The payment
// webhook is signature-authenticated and stays outside both.
func SetupRoutes(
	router *chi.Mux,
	auth *middleware.Authenticator,
	rosterHandler *handlers.RosterHandler,
	invitationHandler *handlers.InvitationHandler,
	seriesHandler *handlers.SeriesHandler,
	teamHandler *handlers.TeamHandler,
	playerHandler *handlers.PlayerHandler,
	paymentWebhookHandler *handlers.PaymentWebhookHandler,
	allowedOrigins []string,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.AntiForgeryHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Post("/webhooks/payment", paymentWebhookHandler.Handle)

	router.Route("/series/{seriesSlug}", func(r chi.Router) {
		r.Get("/", seriesHandler.GetBySlug)
		r.Get("/tournaments", seriesHandler.ListTournaments)

		r.Route("/team/{teamSlug}", func(r chi.Router) {
			r.Get("/roster", rosterHandler.ListSeriesRoster)

			r.Group(func(r chi.Router) {
				r.Use(auth.Authenticate)
				r.Use(middleware.RequireAntiForgeryToken)

				r.Get("/invitations-sent", invitationHandler.ListSent)
				r.Post("/register-self", rosterHandler.RegisterSelf)
				r.Post("/invite", invitationHandler.Invite)
			})
		})
	})

	router.Route("/invitations/{invitationID}", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.RequireAntiForgeryToken)

		r.Post("/accept", invitationHandler.Accept)
		r.Post("/decline", invitationHandler.Decline)
	})

	router.Route("/tournament/{eventID}/team/{teamID}", func(r chi.Router) {
		r.Get("/roster", rosterHandler.ListTournamentRoster)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.RequireAntiForgeryToken)

			r.Post("/roster", rosterHandler.AddToRoster)
		})
	})

	router.Route("/roster/{registrationID}", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.Use(middleware.RequireAntiForgeryToken)

		r.Patch("/", rosterHandler.UpdateRegistration)
		r.Delete("/", rosterHandler.RemoveFromRoster)
	})

	router.Route("/teams", func(r chi.Router) {
		r.Get("/{teamSlug}", teamHandler.GetBySlug)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate)
			r.Use(middleware.RequireAntiForgeryToken)

			r.Post("/{teamSlug}/logo", teamHandler.UploadLogo)
		})
	})

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Get("/players/search", playerHandler.Search)
	})
}
