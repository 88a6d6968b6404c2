package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/chlomaki1/project-loved/pkg/logger"
)

// Check is a named readiness probe, e.g. a Redis or Postgres ping.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// HealthCheckHandler serves both probes.
//
//   - Liveness: with no checks it always answers 200 "ALIVE".
//   - Readiness: every check runs against the request context. If all pass the
//     answer is 200 "READY", otherwise 503 "NOT_READY" and the failure is logged.
func HealthCheckHandler(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		for _, c := range checks {
			if err := c.Fn(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "readiness check failed",
					slog.String("check", c.Name),
					logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
