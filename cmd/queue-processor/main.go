// Command queue-processor consumes the loved Redis work queues and runs the
// scheduled maintenance tasks.
//
// Subcommands:
//
//	run        start the queue workers, the task scheduler and the optional ops server
//	push       append a message to a queue
//	schedules  list the scheduled tasks with their next fire times
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/chlomaki1/project-loved/pkg/config"
	"github.com/chlomaki1/project-loved/pkg/environment"
	"github.com/chlomaki1/project-loved/pkg/logger"
)

const serviceName = "queue-processor"

type appConfig struct {
	Env                    string `env:"APP_ENV" envDefault:"development"`
	LogLevel               string `env:"LOG_LEVEL"`
	LogFormat              string `env:"LOG_FORMAT"`
	SessionCleanupSchedule string `env:"SESSION_CLEANUP_SCHEDULE" envDefault:"0 */15 * * * *"`
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("command failed", logger.Error(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		envFiles []string
		app      appConfig
	)

	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Queue consumer and task scheduler for project loved",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if len(envFiles) > 0 {
				if err := config.LoadEnv(envFiles...); err != nil {
					return err
				}
			}
			if err := config.Load(&app); err != nil {
				return err
			}

			log := newLogger(app)
			logger.SetAsDefault(log)
			cmd.SetContext(environment.WithContext(cmd.Context(), environment.Parse(app.Env)))
			return nil
		},
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "load variables from these .env files before reading the environment")

	root.AddCommand(
		newRunCmd(&app),
		newPushCmd(),
		newSchedulesCmd(&app),
	)
	return root
}

func newLogger(app appConfig) *slog.Logger {
	return logger.New(
		logger.WithEnvironment(environment.Parse(app.Env), serviceName),
		logger.WithLevelString(app.LogLevel),
		logger.WithFormat(logger.Format(app.LogFormat)),
	)
}
