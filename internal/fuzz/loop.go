package fuzz

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fuzzbank/config"
	"fuzzbank/internal/corpus"
	"fuzzbank/internal/scheduler"
	"fuzzbank/internal/seeds"
	"fuzzbank/internal/stats"
	"fuzzbank/internal/types"
	"fuzzbank/pkg/database"
	"fuzzbank/pkg/mq"
	"fuzzbank/pkg/telemetry"
)

// mutationsPerPick is how many mutants one scheduled entry spawns before the
// scheduler is consulted again.
const mutationsPerPick = 32

// NewCorpus builds the corpus for the configured storage backend.
func NewCorpus(cfg *config.AppConfig) corpus.Corpus {
	return corpus.NewInMemoryCorpus(corpus.Backend(cfg.Campaign.CorpusBackend))
}

// NewScheduler builds the configured scheduling policy, optionally wrapped
// in the minimizer.
func NewScheduler(cfg *config.AppConfig, logger *zap.Logger) scheduler.Scheduler {
	var sched scheduler.Scheduler
	switch cfg.Campaign.Scheduler {
	case "queue":
		sched = scheduler.NewQueueScheduler()
	default:
		sched = scheduler.NewPowerQueueScheduler(logger, cfg.Campaign.RandomSeed)
	}
	if cfg.Campaign.Minimizer {
		sched = scheduler.NewMinimizerScheduler(sched, cfg.Campaign.RandomSeed)
	}
	return sched
}

// Runner is the campaign loop: schedule, mutate, execute, observe, retain.
// It is the only goroutine that touches the corpus and the scheduler; seeds
// and stats cross goroutine boundaries through channels and atomics.
type Runner struct {
	logger    *zap.Logger
	cfg       *config.AppConfig
	corpus    corpus.Corpus
	sched     scheduler.Scheduler
	executor  Executor
	feedback  Feedback
	mutator   Mutator
	importer  *seeds.Importer
	reporter  *stats.Reporter
	publisher *mq.EventPublisher
	tracers   *telemetry.TracerFactory
	db        *gorm.DB

	campaignID types.CampaignID
	rng        *rand.Rand

	done chan struct{}
}

type RunnerParams struct {
	fx.In

	Lc         fx.Lifecycle
	Logger     *zap.Logger
	AppConfig  *config.AppConfig
	Corpus     corpus.Corpus
	Scheduler  scheduler.Scheduler
	Executor   Executor
	Feedback   Feedback
	Mutator    Mutator
	Importer   *seeds.Importer
	Reporter   *stats.Reporter
	Publisher  *mq.EventPublisher
	Tracers    *telemetry.TracerFactory
	DB         *gorm.DB `optional:"true"`
	CampaignID types.CampaignID
}

func NewRunner(p RunnerParams) *Runner {
	runner := &Runner{
		logger:     p.Logger,
		cfg:        p.AppConfig,
		corpus:     p.Corpus,
		sched:      p.Scheduler,
		executor:   p.Executor,
		feedback:   p.Feedback,
		mutator:    p.Mutator,
		importer:   p.Importer,
		reporter:   p.Reporter,
		publisher:  p.Publisher,
		tracers:    p.Tracers,
		db:         p.DB,
		campaignID: p.CampaignID,
		rng:        rand.New(rand.NewSource(p.AppConfig.Campaign.RandomSeed)),
		done:       make(chan struct{}),
	}

	runnerCtx, cancel := context.WithCancel(context.Background())
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go runner.start(runnerCtx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			<-runner.done
			return nil
		},
	})
	return runner
}

func (r *Runner) start(ctx context.Context) {
	defer close(r.done)

	r.logger.Info("campaign started",
		zap.String("campaign_id", r.campaignID.String()),
		zap.String("corpus_backend", r.cfg.Campaign.CorpusBackend),
		zap.String("scheduler", r.cfg.Campaign.Scheduler))

	r.loadInitialSeeds(ctx)

	var err error
	for {
		var delay time.Duration
		if err != nil {
			delay = time.Second
		}

		select {
		case <-ctx.Done():
			r.logger.Info("campaign context done, stopping runner")
			return
		case <-time.After(delay):
			err = r.stepEpoch(ctx)
		}
	}
}

func (r *Runner) loadInitialSeeds(ctx context.Context) {
	if r.cfg.SeedDir != "" {
		inputs, err := r.importer.LoadDir(r.cfg.SeedDir)
		if err != nil {
			r.logger.Warn("failed to load seed dir", zap.String("dir", r.cfg.SeedDir), zap.Error(err))
		}
		for _, input := range inputs {
			r.importInput(ctx, input)
		}
	}

	// an empty corpus cannot be scheduled; fall back to random seeds drawn
	// from the campaign rng so runs stay reproducible under a fixed seed
	if r.corpus.Count() == 0 {
		r.logger.Warn("no seeds available, generating random ones")
		for range 4 {
			seed := make(corpus.Input, 64)
			r.rng.Read(seed)
			r.importInput(ctx, seed)
		}
	}
}

// run one scheduling epoch: pick an entry, spawn a batch of mutants from it.
func (r *Runner) stepEpoch(ctx context.Context) error {
	tracer := r.tracers.NewTracer(ctx, "campaign_epoch")
	tracer.Start()
	defer tracer.End()

	r.drainInbox(ctx)

	id, err := r.sched.Next(r.corpus)
	if err != nil {
		r.logger.Warn("nothing to schedule", zap.Error(err))
		tracer.SetStatus(codes.Error, "nothing to schedule")
		return err
	}

	cell, err := r.corpus.Get(id)
	if err != nil {
		// the entry vanished between Next and Get; not fatal, reschedule
		r.logger.Warn("scheduled testcase disappeared", zap.Stringer("id", id), zap.Error(err))
		tracer.SetStatus(codes.Error, "scheduled testcase disappeared")
		return err
	}
	tracer.AddEvent("testcase_scheduled", attribute.Int("corpus_id", id.Index()))
	var base corpus.Input
	cell.With(func(tc *corpus.Testcase) {
		base = tc.Input().Clone()
	})

	for range mutationsPerPick {
		if err := ctx.Err(); err != nil {
			return err
		}
		input := r.mutator.Mutate(r.rng, base)
		if r.cfg.Campaign.MaxInputLen > 0 && len(input) > r.cfg.Campaign.MaxInputLen {
			continue
		}
		obs, err := r.executor.Run(ctx, input)
		if err != nil {
			return err
		}
		r.reporter.AddExecutions(1)
		if r.feedback.IsInteresting(obs) {
			r.retain(ctx, input, obs)
		}
	}

	r.reporter.SetCorpusCounts(r.corpus.Count(), r.corpus.CountDisabled())
	return nil
}

// drainInbox pulls seeds queued by the fsnotify watch into the corpus, on
// the loop goroutine.
func (r *Runner) drainInbox(ctx context.Context) {
	for {
		select {
		case input := <-r.importer.Pending():
			r.importInput(ctx, input)
		default:
			return
		}
	}
}

// importInput runs an external seed once and retains it unconditionally.
func (r *Runner) importInput(ctx context.Context, input corpus.Input) {
	obs, err := r.executor.Run(ctx, input)
	if err != nil {
		r.logger.Warn("failed to execute seed input", zap.Error(err))
		return
	}
	r.reporter.AddExecutions(1)
	r.retain(ctx, input, obs)
}

// retain stores an interesting input in the corpus and fans the news out to
// the archive, the stats reporter and the event queue.
func (r *Runner) retain(ctx context.Context, input corpus.Input, obs *Observation) {
	tracer := r.tracers.NewTracer(ctx, "retain_testcase")
	tracer.Start()
	defer tracer.End()

	// the free id is fixed before insertion so collaborators can name the
	// on-disk copy after it
	freeID := r.corpus.PeekFreeID()
	filename := fmt.Sprintf("%s-%06d", r.campaignID, freeID.Index())

	tc := corpus.NewTestcaseWithFilename(input, filename)
	r.feedback.Append(tc, obs)

	id, err := r.corpus.Add(tc)
	if err != nil {
		r.logger.Error("failed to add testcase", zap.Error(err))
		tracer.SetStatus(codes.Error, "corpus add failed")
		return
	}
	tracer.AddEvent("testcase_retained",
		attribute.Int("corpus_id", id.Index()),
		attribute.Int("input_len", len(input)),
		attribute.Int("edges", len(obs.Coverage)))
	if err := r.sched.OnAdd(r.corpus, id); err != nil {
		r.logger.Error("scheduler rejected new testcase", zap.Stringer("id", id), zap.Error(err))
	}
	r.reporter.AddInteresting(1)

	r.logger.Debug("retained testcase",
		zap.Stringer("id", id),
		zap.Int("len", len(input)),
		zap.Int("edges", len(obs.Coverage)))

	if r.db != nil {
		rec := database.NewSeedRecord(
			r.campaignID.String(), id.Index(), filename,
			len(input), obs.ExecTime, len(obs.Coverage))
		if err := database.AddSeedRecord(ctx, r.db, rec); err != nil {
			r.logger.Error("failed to archive seed", zap.Error(err))
		}
	}
	if r.publisher != nil {
		event := &mq.CorpusEvent{
			CampaignID: r.campaignID.String(),
			Kind:       "added",
			CorpusID:   id.Index(),
			InputLen:   len(input),
			Edges:      len(obs.Coverage),
			Timestamp:  time.Now(),
		}
		if err := r.publisher.Publish(ctx, event); err != nil {
			r.logger.Error("failed to publish corpus event", zap.Error(err))
		}
	}
}
