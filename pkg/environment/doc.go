// Package environment carries the application environment (development, staging,
// production) through context.Context and into structured logs.
//
// Parse turns an APP_ENV value into an Environment, WithContext and FromContext
// move it through a context, and LoggerExtractor plugs it into pkg/logger so
// every record logged with that context carries an "env" attribute.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	ctx = environment.WithContext(ctx, env)
//	log := logger.New(logger.WithContextExtractors(environment.LoggerExtractor()))
//	log.InfoContext(ctx, "started") // env=production
package environment
