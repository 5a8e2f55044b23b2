package main

import (
	"context"
	"os"

	"github.com/alexgaganashvili/orca/pkg/cmd"
	"github.com/alexgaganashvili/orca/pkg/echo"
	"github.com/alexgaganashvili/orca/pkg/engine"
	"github.com/alexgaganashvili/orca/pkg/front50"
	"github.com/alexgaganashvili/orca/pkg/log"
	"github.com/alexgaganashvili/orca/pkg/otelhelper"
	"github.com/alexgaganashvili/orca/pkg/scheduler"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 8083

func main() {
	logger := log.WithModule("orca")

	app := &cli.Command{
		Name:                  "orca",
		Usage:                 "Run pipelines and publish their lifecycle events",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL for execution persistence",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (kafka, gochannel)",
				Value:   "kafka",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "front50-url",
				Usage:   "Base URL of the pipeline configuration registry",
				Value:   "http://localhost:8080",
				Sources: cli.EnvVars("FRONT50_URL"),
			},
			&cli.StringFlag{
				Name:    "pipelines-path",
				Usage:   "Directory of pipeline definitions to schedule on their cron triggers",
				Sources: cli.EnvVars("PIPELINES_PATH"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Orca")

			_, err := otelhelper.NewTracer(ctx, "orca")
			if err != nil {
				logger.WarnContext(ctx, "Tracing disabled", "error", err)
			}

			repository := cmd.NewPersistence(ctx, logger, command.String("database-url"))

			defer func() {
				err := repository.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			registry := front50.NewClient(command.String("front50-url"), logger)
			listener := echo.NewExecutionListener(registry, eventBus, logger)

			stages := engine.NewStageRegistry(logger)
			engine.RegisterDefaultStages(stages, logger)

			runner := engine.NewRunner(repository, listener, stages, logger)

			if path := command.String("pipelines-path"); path != "" {
				sched := scheduler.NewScheduler(runner, logger)

				err := schedulePipelines(ctx, logger, sched, path)
				if err != nil {
					return err
				}

				sched.Start()
				defer sched.Stop()
			}

			api := NewAPI(logger, repository, runner)

			err = api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := app.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
