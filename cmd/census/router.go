package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"census/internal/imports/handler"
	"census/internal/platform/metrics"
	"census/internal/platform/middleware"
	"census/pkg/platform/middleware/requesttime"
)

func newRouter(a *app, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(a.logger))
	r.Use(requesttime.Middleware)
	r.Use(middleware.Logger(a.logger))
	r.Use(middleware.Latency(m))
	r.Use(middleware.MaxBodyBytes(a.cfg.Server.MaxBodyBytes))

	r.Get("/health", a.health.Handler)
	r.Handle("/metrics", metrics.Handler())
	handler.New(a.service, a.logger).Register(r)
	return r
}
