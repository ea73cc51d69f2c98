package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/bossrus/workflow-go/internal/auth"
	"github.com/bossrus/workflow-go/internal/catalog"
	"github.com/bossrus/workflow-go/internal/flash"
	"github.com/bossrus/workflow-go/internal/invite"
	"github.com/bossrus/workflow-go/internal/transport/middleware"
	"github.com/bossrus/workflow-go/internal/user"
	"github.com/bossrus/workflow-go/internal/worklog"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers collects everything the router mounts.
type Handlers struct {
	Catalogs map[string]*catalog.Handler
	Users    *user.Handler
	Invites  *invite.Handler
	Flashes  *flash.Handler
	Worklog  *worklog.Handler
	Socket   http.Handler
}

// RegisterAllRoutes wires the HTTP surface. Each route group is wrapped with
// the gate at the minimum role it requires; routes outside any group carry no
// session at all (login, email confirmation, health).
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, gate *auth.Gate, h Handlers, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/health", healthHandler.healthCheckHandler)
	router.Get("/ping", healthHandler.pingHandler)

	// The websocket route stays outside the logging group: the response
	// wrapper used for body logging cannot hijack the connection for the
	// upgrade.
	if h.Socket != nil {
		router.Handle("/ws", h.Socket)
	}

	router.Group(func(api chi.Router) {
		api.Use(middleware.LoggingMiddleware(logger))

		api.Post("/auth/login", h.Users.Login)
		api.Get("/auth/verify", h.Users.Verify)

		// Catalog collections share one shape: reads for any live session,
		// writes for admins.
		for kind, handler := range h.Catalogs {
			handler := handler
			api.Route("/"+kind, func(r chi.Router) {
				r.Group(func(rr chi.Router) {
					rr.Use(gate.Require(auth.RoleUser))
					rr.Get("/", handler.GetAll)
					rr.Get("/{id}", handler.GetByID)
				})
				r.Group(func(wr chi.Router) {
					wr.Use(gate.Require(auth.RoleAdmin))
					wr.Post("/", handler.Upsert)
					wr.Delete("/{id}", handler.Delete)
				})
			})
		}

		api.Route("/users", func(r chi.Router) {
			r.Get("/confirmEmail/{id}/{token}", h.Users.ConfirmEmail)

			r.Group(func(ur chi.Router) {
				ur.Use(gate.Require(auth.RoleUser))
				ur.Get("/", h.Users.ListShort)
				ur.Get("/{id}", h.Users.GetByID)
				ur.Patch("/", h.Users.Update)
				ur.Post("/email", h.Users.UpdateEmail)
			})
			r.Group(func(ar chi.Router) {
				ar.Use(gate.Require(auth.RoleAdmin))
				ar.Get("/full/list", h.Users.ListFull)
				ar.Post("/", h.Users.Create)
				ar.Delete("/{id}", h.Users.Delete)
			})
		})

		api.Route("/invites", func(r chi.Router) {
			r.Use(gate.Require(auth.RoleUser))
			r.Get("/", h.Invites.ListMine)
			r.Post("/", h.Invites.Create)
			r.Delete("/{id}", h.Invites.Delete)
		})

		api.Route("/flashes", func(r chi.Router) {
			r.Use(gate.Require(auth.RoleUser))
			r.Get("/", h.Flashes.ListMine)
			r.Post("/", h.Flashes.Create)
			r.Delete("/", h.Flashes.DeleteMine)
		})

		api.Route("/worklog", func(r chi.Router) {
			r.Use(gate.Require(auth.RoleCanSeeStatistics))
			r.Get("/{id}", h.Worklog.GetByWorkflow)
		})
	})
}
