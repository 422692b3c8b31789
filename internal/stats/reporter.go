package stats

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"fuzzbank/config"
	"fuzzbank/internal/types"
)

const statsKeyTmpl = "fuzzbank:stats:%s:%s" // fuzzbank:stats:<campaign_id>:<field>

// Reporter periodically logs campaign counters and mirrors them to redis for
// out-of-band monitoring. The campaign loop feeds it through atomics, so the
// reporter goroutine never touches the corpus itself.
type Reporter struct {
	logger      *zap.Logger
	redisClient *redis.Client
	campaignID  types.CampaignID
	interval    time.Duration

	executions  atomic.Uint64
	interesting atomic.Uint64
	enabled     atomic.Int64
	disabled    atomic.Int64

	done chan struct{}
}

type ReporterParams struct {
	fx.In

	Lc          fx.Lifecycle
	Logger      *zap.Logger
	RedisClient *redis.Client `optional:"true"`
	AppConfig   *config.AppConfig
	CampaignID  types.CampaignID
}

func NewReporter(p ReporterParams) *Reporter {
	r := &Reporter{
		logger:      p.Logger,
		redisClient: p.RedisClient,
		campaignID:  p.CampaignID,
		interval:    p.AppConfig.Campaign.StatsInterval,
		done:        make(chan struct{}),
	}

	reportCtx, cancel := context.WithCancel(context.Background())
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go r.run(reportCtx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			<-r.done
			return nil
		},
	})
	return r
}

// AddExecutions bumps the run counter.
func (r *Reporter) AddExecutions(n uint64) {
	r.executions.Add(n)
}

// AddInteresting bumps the retained-input counter.
func (r *Reporter) AddInteresting(n uint64) {
	r.interesting.Add(n)
}

// SetCorpusCounts mirrors the corpus partition sizes.
func (r *Reporter) SetCorpusCounts(enabled, disabled int) {
	r.enabled.Store(int64(enabled))
	r.disabled.Store(int64(disabled))
}

func (r *Reporter) run(ctx context.Context) {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	var lastExecs uint64
	for {
		select {
		case <-ctx.Done():
			r.flush(context.Background(), 0)
			return
		case <-ticker.C:
			execs := r.executions.Load()
			rate := float64(execs-lastExecs) / r.interval.Seconds()
			lastExecs = execs
			r.flush(ctx, rate)
		}
	}
}

func (r *Reporter) flush(ctx context.Context, rate float64) {
	execs := r.executions.Load()
	interesting := r.interesting.Load()
	enabled := r.enabled.Load()
	disabled := r.disabled.Load()

	r.logger.Info("campaign stats",
		zap.Uint64("executions", execs),
		zap.Float64("execs_per_sec", rate),
		zap.Uint64("interesting", interesting),
		zap.Int64("corpus_enabled", enabled),
		zap.Int64("corpus_disabled", disabled))

	if r.redisClient == nil {
		return
	}
	fields := map[string]any{
		"executions":      execs,
		"interesting":     interesting,
		"corpus_enabled":  enabled,
		"corpus_disabled": disabled,
	}
	for field, value := range fields {
		key := fmt.Sprintf(statsKeyTmpl, r.campaignID, field)
		if err := r.redisClient.Set(ctx, key, value, 0).Err(); err != nil {
			r.logger.Error("failed to publish stats to redis", zap.String("key", key), zap.Error(err))
			return
		}
	}
}
