package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chlomaki1/project-loved/internal/jobs"
	"github.com/chlomaki1/project-loved/pkg/config"
	"github.com/chlomaki1/project-loved/pkg/httpserver"
	"github.com/chlomaki1/project-loved/pkg/logger"
	"github.com/chlomaki1/project-loved/pkg/pg"
	"github.com/chlomaki1/project-loved/pkg/queue"
	"github.com/chlomaki1/project-loved/pkg/redis"
)

// runConfig groups the configuration of every component started by run.
type runConfig struct {
	Queue    queue.Config
	Redis    redis.Config
	Postgres pg.Config
	Ops      httpserver.Config
}

func newRunCmd(app *appConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the queue workers, the task scheduler and the ops server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), *app)
		},
	}
}

func run(ctx context.Context, app appConfig) error {
	var cfg runConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}
	log := slog.Default()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pg.Connect(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	// shared client for readiness probes; workers open their own connections
	probeCfg := cfg.Redis
	probeCfg.PoolSize = 1
	probe, err := redis.Connect(ctx, probeCfg)
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer probe.Close()

	store := jobs.NewPostgres(pool)

	registry := queue.NewHandlerRegistry(append(cfg.Queue.RegistryOptions(),
		queue.WithRegistryLogger(log.With(logger.Component("queue"))))...)
	if err := registry.RegisterHandlers(
		jobs.NewUserUpdateHandler(store, log),
	); err != nil {
		return err
	}

	tasks, err := newTaskManager(app, cfg.Queue, store, log)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(registry.Run(ctx, redis.NewConnector(cfg.Redis)))
	g.Go(tasks.Run(ctx))

	if cfg.Ops.Enabled() {
		srv := httpserver.NewFromConfig(cfg.Ops, httpserver.WithLogger(log.With(logger.Component("ops"))))
		router := httpserver.NewOpsRouter(httpserver.OpsOptions{
			Logger: log,
			Checks: []httpserver.Check{
				{Name: "redis", Fn: redis.Healthcheck(probe)},
				{Name: "postgres", Fn: pg.Healthcheck(pool)},
			},
			Queues:    registry.Queues,
			Schedules: tasks.Entries,
		})
		g.Go(func() error {
			return srv.Run(ctx, router)
		})
	}

	log.InfoContext(ctx, "queue processor started",
		slog.Any("queues", registry.Queues()),
		slog.Any("tasks", tasks.Names()))

	start := time.Now()
	err = g.Wait()
	log.InfoContext(ctx, "queue processor stopped", logger.Duration(time.Since(start)), logger.Error(err))
	return err
}

// newTaskManager builds the scheduler with every compiled-in task.
func newTaskManager(app appConfig, queueCfg queue.Config, sessions jobs.SessionStore, log *slog.Logger) (*queue.TaskManager, error) {
	tasks := queue.NewTaskManager(append(queueCfg.TaskManagerOptions(),
		queue.WithTaskManagerLogger(log.With(logger.Component("scheduler"))))...)

	if err := tasks.RegisterTasks(
		jobs.NewSessionCleanupTask(sessions, app.SessionCleanupSchedule, log),
	); err != nil {
		return nil, err
	}
	return tasks, nil
}
