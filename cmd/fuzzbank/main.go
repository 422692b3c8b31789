package main

import (
	_ "go.uber.org/automaxprocs"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"fuzzbank/config"
	"fuzzbank/internal/fuzz"
	"fuzzbank/internal/seeds"
	"fuzzbank/internal/stats"
	"fuzzbank/internal/types"
	"fuzzbank/pkg/database"
	"fuzzbank/pkg/logger"
	"fuzzbank/pkg/mq"
	"fuzzbank/pkg/telemetry"
)

func main() {
	app := fx.New(
		fx.Provide(
			config.LoadConfig,          // inject config
			database.NewDBConnection,   // inject db connection
			database.NewRedisClient,    // inject redis client
			logger.NewLogger,           // inject logger
			mq.NewRabbitMQ,             // inject rabbitmq service
			mq.NewEventPublisher,       // inject corpus event publisher
			telemetry.NewTelemetry,     // inject telemetry
			telemetry.NewTracerFactory, // inject telemetry tracer factory
			types.NewCampaignID,        // inject campaign id
			seeds.NewImporter,          // inject seed importer
			stats.NewReporter,          // inject stats reporter
			fuzz.NewCorpus,             // inject corpus
			fuzz.NewScheduler,          // inject scheduler
		),
		fx.Provide(
			func() fuzz.Executor { return fuzz.NewMockExecutor() },
			func() fuzz.Feedback { return fuzz.NewCoverageFeedback() },
			func() fuzz.Mutator { return &fuzz.FlipMutator{} },
		),
		fx.Invoke(
			fuzz.NewRunner,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			zlogger := fxevent.ZapLogger{Logger: log}
			zlogger.UseLogLevel(zap.DebugLevel)
			return &zlogger
		}),
	)
	app.Run()
}
