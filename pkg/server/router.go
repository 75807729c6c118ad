package server

import (
	"net/http"
	"time"

	"github.com/gimlet-io/hookcast/cmd/hookcast/config"
	"github.com/gimlet-io/hookcast/pkg/notifications"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

func SetupRouter(
	config *config.Config,
	notificationsManager notifications.Manager,
	webhooks *prometheus.CounterVec,
	perf *prometheus.HistogramVec,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(middleware.WithValue("config", config))
	r.Use(middleware.WithValue("notificationsManager", notificationsManager))
	r.Use(middleware.WithValue("webhooks", webhooks))
	r.Use(middleware.WithValue("perf", perf))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.Post("/hook/github", githubHook)

	return r
}
