package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/chlomaki1/project-loved/pkg/config"
	"github.com/chlomaki1/project-loved/pkg/logger"
	"github.com/chlomaki1/project-loved/pkg/queue"
)

func newSchedulesCmd(app *appConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "schedules",
		Short: "List the scheduled tasks and when they fire next",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var queueCfg queue.Config
			if err := config.Load(&queueCfg); err != nil {
				return err
			}

			// listing never executes a task, so no session store is needed
			tasks, err := newTaskManager(*app, queueCfg, nil, logger.Discard())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSCHEDULE\tNEXT")
			for _, e := range tasks.Entries() {
				next := "never"
				if !e.Next.IsZero() {
					next = e.Next.Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Schedule, next)
			}
			return w.Flush()
		},
	}
}
