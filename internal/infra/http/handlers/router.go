package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/xavierca1/fortis-crm/internal/entity"
	"github.com/xavierca1/fortis-crm/internal/infra/http/middleware"
)

type RouterConfig struct {
	CORSOrigins []string
	Health      *HealthHandler
	Leads       *LeadHandler
	Clients     *ClientHandler
	Stats       *StatsHandler
	Users       *UserHandler
	Settings    *SettingsHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.ActorHeader},
		MaxAge:         300,
	}))

	r.Get("/health", cfg.Health.Handle)
	r.Handle("/metrics", middleware.MetricsHandler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Actor)

		r.Route("/leads", cfg.Leads.Routes)

		r.Get("/clients", cfg.Clients.List)
		r.Get("/clients/options", cfg.Clients.Options)
		r.Get("/sales", cfg.Clients.ListSales)

		r.Get("/stats", cfg.Stats.Global)
		r.Get("/traffic", cfg.Stats.Traffic)

		r.Route("/users", cfg.Users.Routes)

		r.Get("/settings", cfg.Settings.GetCompany)
		r.Put("/settings", cfg.Settings.UpdateCompany)
		r.Route("/tags", cfg.Settings.TagRoutes)
		r.Route("/channels", cfg.Settings.VocabularyRoutes(entity.VocabularyChannels))
		r.Route("/origins", cfg.Settings.VocabularyRoutes(entity.VocabularyOrigins))
	})

	return r
}
