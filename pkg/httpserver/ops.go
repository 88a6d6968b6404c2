package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/chlomaki1/project-loved/pkg/logger"
	"github.com/chlomaki1/project-loved/pkg/queue"
)

// OpsOptions selects what the ops router exposes. Nil sources are not mounted.
type OpsOptions struct {
	Logger    *slog.Logger
	Checks    []Check
	Queues    func() []string
	Schedules func() []queue.ScheduledEntry
}

// NewOpsRouter builds the operational endpoints:
//
//	GET /healthz    liveness
//	GET /readyz     readiness, runs opts.Checks
//	GET /queues     registered queue names
//	GET /schedules  registered tasks with their next fire time
func NewOpsRouter(opts OpsOptions) chi.Router {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", HealthCheckHandler(log))
	r.Get("/readyz", HealthCheckHandler(log, opts.Checks...))

	if opts.Queues != nil {
		r.Get("/queues", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, log, map[string]any{"queues": opts.Queues()})
		})
	}
	if opts.Schedules != nil {
		r.Get("/schedules", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, log, map[string]any{"schedules": opts.Schedules()})
		})
	}

	return r
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode ops response", logger.Error(err))
	}
}
