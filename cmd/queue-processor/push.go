package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/chlomaki1/project-loved/pkg/config"
	"github.com/chlomaki1/project-loved/pkg/logger"
	"github.com/chlomaki1/project-loved/pkg/redis"
)

func newPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "push <queue> <message>...",
		Short:   "Append messages to a queue",
		Example: `  queue-processor push loved:queues:user_update '{"user_id":2,"username":"peppy","country":"AU"}'`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg redis.Config
			if err := config.Load(&cfg); err != nil {
				return err
			}

			client, err := redis.Connect(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			q := redis.NewListQueue(client)
			defer q.Close()

			name, messages := args[0], args[1:]
			if err := q.Push(cmd.Context(), name, messages...); err != nil {
				return err
			}

			pending, err := q.Len(cmd.Context(), name)
			if err != nil {
				return err
			}
			slog.InfoContext(cmd.Context(), "messages pushed",
				logger.Queue(name),
				slog.Int("pushed", len(messages)),
				slog.Int64("pending", pending))
			return nil
		},
	}
}
