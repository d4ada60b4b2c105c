package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/conveyorhq/conveyor/internal/config"
	"github.com/conveyorhq/conveyor/internal/logging"
	"github.com/conveyorhq/conveyor/internal/queue"
	"github.com/conveyorhq/conveyor/internal/redis"
	"github.com/conveyorhq/conveyor/internal/version"
	"github.com/conveyorhq/conveyor/internal/worker"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func main() {
	app := &cli.Command{
		Name:    "conveyor",
		Usage:   "Conveyor - Background job relay service",
		Version: version.Version(),
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the Conveyor worker",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "config",
						Usage: "Path to config file",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return serve(ctx, config.Flags{Config: c.String("config")})
				},
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return cli.ShowAppHelp(c)
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}

func serve(mainContext context.Context, flags config.Flags) error {
	cfg, err := config.Parse(flags)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.WithLogLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("starting conveyor", cfg.LogConfigurationSummary()...)

	// Resolving the connection options fails hard on missing or malformed
	// Redis configuration; running without a known endpoint is not an option.
	options, err := redis.ResolveConnectionOptions(cfg, logger)
	if err != nil {
		logger.Error("redis configuration invalid", zap.Error(err))
		return err
	}

	redisClient, err := redis.New(mainContext, options)
	if err != nil {
		logger.Error("redis client initialization failed", zap.Error(err))
		return err
	}

	supervisor := worker.NewSupervisor(logger,
		worker.WithShutdownTimeout(time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second),
	)
	supervisor.Register(queue.NewServer(options, queue.ServerConfig{
		Queue:       cfg.Queue,
		Concurrency: cfg.Concurrency,
	}, logger))
	supervisor.Register(redis.NewHeartbeat(redisClient, logger, 0))

	ctx, stop := signal.NotifyContext(mainContext, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return supervisor.Run(ctx)
}
