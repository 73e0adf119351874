package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/amuzant/Crewmates/handlers"
	"github.com/amuzant/Crewmates/middleware"
	"github.com/amuzant/Crewmates/models"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Sprint    *handlers.SprintHandler
	Ranking   *handlers.RankingHandler
	Project   *handlers.ProjectHandler
	Progress  *handlers.ProgressHandler
	Message   *handlers.MessageHandler
	Chat      *handlers.ChatHandler
	Points    *handlers.PointsHandler
	Prize     *handlers.PrizeHandler
	Reward    *handlers.RewardHandler
	WebSocket *handlers.WebSocketHandler
}

func SetupRoutes(router *chi.Mux, auth *middleware.Authenticator, h Handlers) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	adminOnly := middleware.Authorize(models.RoleAdmin)
	adminOrLeader := middleware.Authorize(models.RoleAdmin, models.RoleTeamLeader)

	router.Post("/auth/signup", h.Auth.Signup)
	router.Post("/auth/login", h.Auth.Login)

	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Get("/auth/session", h.Auth.Session)

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.User.List)
			r.Get("/me", h.User.Me)
			r.Put("/me", h.User.UpdateMe)
			r.Put("/me/avatar", h.User.UploadAvatar)
		})

		r.Route("/sprints", func(r chi.Router) {
			r.Get("/", h.Sprint.List)
			r.With(adminOnly).Post("/", h.Sprint.Create)
			r.Route("/{sprintID}", func(r chi.Router) {
				r.Get("/", h.Sprint.Get)
				r.Get("/projects", h.Sprint.UnrankedProjects)
				r.Get("/rankings", h.Ranking.List)
				r.With(adminOnly).Post("/rankings", h.Ranking.Submit)
				r.With(adminOnly).Post("/rankings/complete", h.Ranking.Complete)
				r.Get("/rankings/status", h.Ranking.Status)
			})
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", h.Project.List)
			r.With(adminOrLeader).Post("/", h.Project.Create)
			r.Route("/{projectID}", func(r chi.Router) {
				r.Get("/", h.Project.Get)
				r.Delete("/", h.Project.Delete)
				r.Post("/members", h.Project.AddMember)
				r.Delete("/members/{memberID}", h.Project.RemoveMember)
				r.Route("/progress", func(r chi.Router) {
					r.Get("/", h.Progress.List)
					r.Post("/", h.Progress.Post)
					r.Put("/", h.Progress.Update)
					r.Delete("/", h.Progress.Delete)
				})
			})
		})

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", h.Message.List)
			r.Post("/", h.Message.Send)
			r.Put("/{messageID}", h.Message.Edit)
			r.Delete("/{messageID}", h.Message.Delete)
		})

		r.Route("/chats", func(r chi.Router) {
			r.Post("/group", h.Chat.CreateGroup)
			r.Get("/groups", h.Chat.ListGroups)
			r.Post("/group/check-name", h.Chat.CheckName)
		})

		r.Route("/points", func(r chi.Router) {
			r.Get("/", h.Points.History)
			r.With(adminOnly).Post("/", h.Points.Grant)
			r.Post("/spin", h.Points.Spin)
		})

		r.Route("/prizes", func(r chi.Router) {
			r.Get("/", h.Prize.List)
			r.With(adminOnly).Post("/", h.Prize.Create)
			r.Get("/unclaimed", h.Prize.Unclaimed)
			r.With(adminOnly).Put("/{prizeID}/photo", h.Prize.UploadPhoto)
			r.Post("/{prizeID}/acknowledge", h.Prize.Acknowledge)
			r.Post("/{prizeID}/claim", h.Prize.Claim)
		})

		r.Route("/rewards", func(r chi.Router) {
			r.Get("/", h.Reward.List)
			r.With(adminOnly).Post("/", h.Reward.Create)
			r.Post("/claim", h.Reward.Claim)
		})

		r.Get("/ws/sprints/{sprintID}", h.WebSocket.ServeSprint)
	})
}
