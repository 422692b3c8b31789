package seeds

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"fuzzbank/config"
	"fuzzbank/internal/corpus"
)

// Importer feeds external seed files into the campaign. Initial seeds are
// loaded synchronously by the campaign loop; files dropped into the inbox
// directory afterwards are picked up by an fsnotify watch and queued on a
// channel, so only the loop goroutine ever touches the corpus.
type Importer struct {
	logger      *zap.Logger
	inboxDir    string
	maxInputLen int

	pending chan corpus.Input
}

type ImporterParams struct {
	fx.In

	Lc        fx.Lifecycle
	Logger    *zap.Logger
	AppConfig *config.AppConfig
}

func NewImporter(p ImporterParams) *Importer {
	imp := &Importer{
		logger:      p.Logger,
		inboxDir:    p.AppConfig.InboxDir,
		maxInputLen: p.AppConfig.Campaign.MaxInputLen,
		pending:     make(chan corpus.Input, 256),
	}

	if imp.inboxDir == "" {
		return imp
	}

	watchCtx, cancel := context.WithCancel(context.Background())
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(imp.inboxDir, 0755); err != nil {
				watcher.Close()
				return err
			}
			if err := watcher.Add(imp.inboxDir); err != nil {
				watcher.Close()
				return err
			}
			imp.logger.Debug("watching seed inbox", zap.String("dir", imp.inboxDir))
			go imp.watch(watchCtx, watcher)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			return nil
		},
	})
	return imp
}

// Pending is the queue of inputs that arrived through the inbox.
func (i *Importer) Pending() <-chan corpus.Input {
	return i.pending
}

// LoadDir reads every regular file in dir as one seed input.
func (i *Importer) LoadDir(dir string) ([]corpus.Input, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var inputs []corpus.Input
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		input, ok := i.readSeed(filepath.Join(dir, entry.Name()))
		if ok {
			inputs = append(inputs, input)
		}
	}
	i.logger.Info("loaded initial seeds", zap.String("dir", dir), zap.Int("count", len(inputs)))
	return inputs, nil
}

func (i *Importer) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				i.handleCreate(event.Name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			i.logger.Error("fsnotify error", zap.Error(err))
		}
	}
}

func (i *Importer) handleCreate(path string) {
	input, ok := i.readSeed(path)
	if !ok {
		return
	}
	select {
	case i.pending <- input:
		i.logger.Debug("queued inbox seed", zap.String("file", path))
	default:
		i.logger.Warn("seed inbox queue full, dropping", zap.String("file", path))
	}
}

func (i *Importer) readSeed(path string) (corpus.Input, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		i.logger.Error("failed to read seed file", zap.String("file", path), zap.Error(err))
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}
	if i.maxInputLen > 0 && len(data) > i.maxInputLen {
		i.logger.Warn("seed exceeds max input length, skipping",
			zap.String("file", path), zap.Int("len", len(data)))
		return nil, false
	}
	return corpus.Input(data), true
}
