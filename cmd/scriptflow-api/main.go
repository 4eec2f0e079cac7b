package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"
	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/voxline/scriptflow/pkg/cmd"
	"github.com/voxline/scriptflow/pkg/conditions"
	"github.com/voxline/scriptflow/pkg/extraction"
	"github.com/voxline/scriptflow/pkg/flow"
	"github.com/voxline/scriptflow/pkg/genai"
	"github.com/voxline/scriptflow/pkg/log"
	"github.com/voxline/scriptflow/pkg/otelhelper"
	"github.com/voxline/scriptflow/pkg/persistence"
	redisstore "github.com/voxline/scriptflow/pkg/persistence/redis"
	"github.com/voxline/scriptflow/pkg/script"
	"github.com/voxline/scriptflow/pkg/services"
)

const defaultPort = 9080

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "scriptflow-api",
		Usage:                 "Serve the script and session REST API",
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
				Usage:    "Database connection URL for persistence (postgres:// or a file root)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "scripts-dir",
				Usage:   "Directory of script documents to register at startup",
				Sources: cli.EnvVars("SCRIPTS_DIR"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider for flow lifecycle events",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis connection URL for session snapshots (optional)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.StringFlag{
				Name:    "openai-api-key",
				Usage:   "OpenAI API key for response generation",
				Sources: cli.EnvVars("OPENAI_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "openai-model",
				Usage:   "OpenAI model used for response generation",
				Sources: cli.EnvVars("OPENAI_MODEL"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export OTLP traces for session turns",
				Sources: cli.EnvVars("TRACING_ENABLED"),
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

			logger.InfoContext(ctx, "Initializing Scriptflow API")

			loader, err := script.NewLoader()
			if err != nil {
				return err
			}

			registry := script.NewRegistry()

			store, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				err := store.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			manager := flow.NewManager(flow.ManagerConfig{
				Registry:  registry,
				Executor:  newExecutor(command, logger),
				EventBus:  eventBus,
				Snapshots: newSnapshots(command, logger),
				Store:     store,
				Tracer:    newTracer(ctx, command, logger),
				Logger:    logger,
			})

			loadScripts(ctx, command, loader, registry, store, logger)

			api := NewAPI(
				logger,
				loader,
				registry,
				manager,
				store,
				eventBus,
			)

			err = api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}

func newExecutor(command *cli.Command, logger *slog.Logger) *flow.Executor {
	resolver := flow.NewResolver(conditions.NewEvaluator(logger), logger)
	extractor := extraction.NewKeywordExtractor()

	var generator genai.Generator
	if apiKey := command.String("openai-api-key"); apiKey != "" {
		generator = genai.NewOpenAIGenerator(apiKey, command.String("openai-model"))
	} else {
		logger.Warn("No OpenAI API key configured, using fallback responses")

		generator = &genai.StaticGenerator{Reply: "Understood. How else can I help you?"}
	}

	return flow.NewExecutor(resolver, extractor, generator, logger)
}

func newSnapshots(command *cli.Command, logger *slog.Logger) *redisstore.SnapshotStore {
	redisURL := command.String("redis-url")
	if redisURL == "" {
		return nil
	}

	options, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Error("Invalid Redis URL, session snapshots disabled", "error", err)

		return nil
	}

	return redisstore.NewSnapshotStoreFromClient(redis.NewClient(options), 0)
}

func newTracer(ctx context.Context, command *cli.Command, logger *slog.Logger) trace.Tracer {
	if !command.Bool("tracing") {
		return nil
	}

	tracer, err := otelhelper.NewTracer(ctx, "scriptflow-api")
	if err != nil {
		logger.ErrorContext(ctx, "Failed to initialize tracer, tracing disabled", "error", err)

		return nil
	}

	return tracer
}

func loadScripts(ctx context.Context, command *cli.Command, loader *script.Loader, registry *script.Registry, store persistence.Persistence, logger *slog.Logger) {
	scriptService := services.NewScript(loader, registry, store, logger)

	restored, err := scriptService.RestoreFromStore(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to restore scripts from store", "error", err)
	} else if restored > 0 {
		logger.InfoContext(ctx, "Restored scripts from store", "count", restored)
	}

	dir := command.String("scripts-dir")
	if dir == "" {
		return
	}

	loaded, err := scriptService.LoadDirectory(ctx, dir)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load scripts directory", "dir", dir, "error", err)

		return
	}

	logger.InfoContext(ctx, "Loaded scripts from directory", "dir", dir, "count", loaded)
}
