package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/jonathan/resume-intake/internal/server/web"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.withLogging)
	r.Use(withSecurityHeaders)
	r.Use(withCORS)
	r.Use(s.withRateLimit)

	// Static files
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web.StaticFS)))

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	// Each visit to / starts a session
	r.Get("/", s.handleIndex)

	r.Route("/w/{id}", func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", s.handlePage)
		r.Get("/events", s.handleEvents)
		r.Post("/browse", s.handleBrowse)
		r.Post("/drag", s.handleDrag)
		r.Post("/files", s.handleFiles)
		r.Post("/submit", s.handleSubmit)
	})
	return r
}
