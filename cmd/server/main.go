package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/amelie/internal/bootstrap"
	"github.com/Simplici0/amelie/internal/config"
)

func main() {
	cfg := config.Load()

	model, err := bootstrap.Model(context.Background(), bootstrap.Options{
		DBPath:        cfg.DBPath,
		ScenariosFile: cfg.ScenariosFile,
	})
	if err != nil {
		log.Fatalf("failed to build cost model: %v", err)
	}

	decimal.MarshalJSONWithoutQuotes = true

	srv, err := newServer(model, cfg.TemplatesDir, cfg.IsDev())
	if err != nil {
		log.Fatalf("failed to prepare templates: %v", err)
	}

	r := srv.routes(cfg.StaticDir, cfg.CORSOrigins)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (%s, %d scenarios)", addr, cfg.AppEnv, len(model.ScenarioNames()))
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func (s *server) routes(staticDir string, origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	r.Get("/", s.handleDashboard)
	r.Get("/charts/{file}", s.handleChart)
	r.Get("/export/{file}", s.handleExport)
	r.Get("/healthz", s.handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders: []string{"Content-Type"},
	})
	r.Route("/api/v1", func(api chi.Router) {
		api.Use(c.Handler)
		api.Get("/scenarios", s.handleAPIScenarios)
		api.Put("/scenarios/{name}", s.handleAPIPutScenario)
		api.Get("/preview", s.handleAPIPreview)
		api.Get("/model", s.handleAPIModel)
		api.Post("/model/apply", s.handleAPIApply)
		api.Post("/model/reset", s.handleAPIReset)
	})

	return r
}
