package main

// run a campaign without postgres/redis/rabbitmq, against the mock executor

import (
	"os"

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
	os.Setenv("FUZZBANK_MOCK", "true")

	app := fx.New(
		fx.Provide(
			config.LoadConfig,
			database.NewDBConnection,
			database.NewRedisClient,
			logger.NewLogger,
			mq.NewRabbitMQ,
			mq.NewEventPublisher,
			telemetry.NewTracerFactory,
			types.NewCampaignID,
			seeds.NewImporter,
			stats.NewReporter,
			fuzz.NewCorpus,
			fuzz.NewScheduler,
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
