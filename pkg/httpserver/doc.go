// Package httpserver runs the processor's optional ops endpoint.
//
// Server wraps net/http with context-driven graceful shutdown: Run serves until
// its context is cancelled, then drains connections for at most the shutdown
// timeout. NewOpsRouter mounts the probes and introspection routes on a chi router:
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	g.Go(func() error {
//	    return srv.Run(ctx, httpserver.NewOpsRouter(httpserver.OpsOptions{
//	        Checks:    []httpserver.Check{{Name: "redis", Fn: redis.Healthcheck(client)}},
//	        Queues:    registry.Queues,
//	        Schedules: tasks.Entries,
//	    }))
//	})
//
// Run wraps listen errors with ErrStart and Shutdown wraps drain errors with
// ErrShutdown; use errors.Is to tell them apart.
package httpserver
