// Package logger builds *slog.Logger instances with functional options and a
// handful of attribute helpers so log keys stay consistent across the workers,
// the task scheduler and the command line.
//
// New picks a text or JSON handler, applies static attributes and wraps the
// result in LogHandlerDecorator, which adds attributes pulled from the context
// of every *Context logging call. The environment presets register such an
// extractor for "env": the environment stored in the context wins, the preset's
// environment is the fallback.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Production, "queue-processor"),
//	    logger.WithLevelString(os.Getenv("LOG_LEVEL")),
//	)
//	logger.SetAsDefault(log)
//
//	log.Error("failed to handle message",
//	    logger.Queue("loved:queues:user_update"),
//	    logger.Error(err),
//	)
//
// Error returns an empty attribute for a nil error, so it can be passed without
// a nil check.
package logger
