package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.CleanPath)
	r.Use(AccessLog(log))
	r.Use(Recover(log))
	r.Use(Cors)

	r.Get("/health", HealthHandler{}.Health)

	sh := ScrapeHandler{Searches: d.Searches, Log: log}
	r.Get("/jobs/search", sh.Search)
	r.Post("/search/run", sh.Run)
	r.Get("/search/status", sh.Status)

	jh := JobsHandler{DB: d.DB, Hub: d.Hub, Log: log, ExportDir: d.ExportDir}
	dh := DocumentsHandler{DB: d.DB, Documents: d.Documents, Log: log}
	r.Get("/jobs", jh.List)
	r.Route("/jobs/{id}", func(r chi.Router) {
		r.Get("/", jh.Get)
		r.Delete("/", jh.Delete)
		r.Get("/resume", dh.Resume)
		r.Get("/cover-letter", dh.CoverLetter)
	})
	r.Get("/export", jh.Export)

	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		Hub:         d.Hub,
		Log:         log,
	}
	r.Get("/config", ch.Get)
	r.Put("/config", ch.Put)
	r.Get("/config/path", ch.Path)
	r.Get("/config/validate", ch.Validate)

	// secrets read the live config, not a snapshot
	r.Post("/api/secrets/imap", SecretsHandler{CfgVal: d.CfgVal, Set: d.SetIMAPPassword}.SetIMAPPassword)

	r.Get("/events", EventsHandler{Hub: d.Hub}.ServeSSE)

	r.Group(func(r chi.Router) {
		r.Use(LocalOnly)
		r.Post("/db/checkpoint", DBHandler{DB: d.DB, CfgVal: d.CfgVal, Log: log}.Checkpoint)
		r.Post("/shutdown", ShutdownHandler{Token: d.ShutdownToken, Shutdown: d.Shutdown}.Post)
	})

	return r
}
