package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/autoserve/jobcard-backend/internal/middleware"
	"github.com/autoserve/jobcard-backend/internal/models"
)

// NewRouter assembles the full REST surface. Role lists per route
// mirror the operation preconditions; reads only need authentication.
func NewRouter(
	authHandler *AuthHandler,
	jobCardHandler *JobCardHandler,
	kanbanHandler *KanbanHandler,
	inventoryHandler *InventoryHandler,
	authMW *middleware.AuthMiddleware,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Logger, chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(authMW.Authenticate)
				r.Get("/me", authHandler.Me)
				r.Post("/change-password", authHandler.ChangePassword)
			})
		})

		r.Route("/jobcards", func(r chi.Router) {
			r.Use(authMW.Authenticate)

			r.With(authMW.RequireRole(models.RoleServiceAdvisor, models.RoleManager)).
				Post("/", jobCardHandler.Create)
			r.Get("/", jobCardHandler.List)
			r.Get("/{id}", jobCardHandler.Get)
			r.Get("/{id}/bill", jobCardHandler.Bill)
			r.With(authMW.RequireRole(models.RoleTechnician, models.RoleManager)).
				Post("/{id}/updates", jobCardHandler.AddUpdate)
			r.With(authMW.RequireRole(models.RoleCashier, models.RoleManager)).
				Post("/{id}/parts", jobCardHandler.AddPart)
			r.With(authMW.RequireRole(models.RoleManager, models.RoleServiceAdvisor)).
				Patch("/{id}/status", jobCardHandler.SetStatus)
		})

		r.With(authMW.Authenticate).Get("/kanban", kanbanHandler.Board)

		r.Route("/inventory", func(r chi.Router) {
			r.Use(authMW.Authenticate)
			r.Get("/", inventoryHandler.List)
			r.Get("/{code}", inventoryHandler.Get)
		})
	})

	return r
}
