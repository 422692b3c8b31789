package seeds

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"fuzzbank/config"
	"fuzzbank/internal/corpus"
)

func newTestImporter(t *testing.T, cfg *config.AppConfig) *Importer {
	t.Helper()
	lc := fxtest.NewLifecycle(t)
	imp := NewImporter(ImporterParams{
		Lc:        lc,
		Logger:    zap.NewNop(),
		AppConfig: cfg,
	})
	lc.RequireStart()
	t.Cleanup(lc.RequireStop)
	return imp
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a"), []byte{1, 2, 3}, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b"), []byte{4}, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	imp := newTestImporter(t, &config.AppConfig{
		Campaign: config.CampaignConfig{MaxInputLen: 1 << 20},
	})

	inputs, err := imp.LoadDir(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []corpus.Input{{1, 2, 3}, {4}}, inputs)
}

func TestLoadDirMaxLen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "small"), []byte{1}, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big"), make([]byte, 100), 0644))

	imp := newTestImporter(t, &config.AppConfig{
		Campaign: config.CampaignConfig{MaxInputLen: 10},
	})

	inputs, err := imp.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, []corpus.Input{{1}}, inputs)
}

func TestLoadDirMissing(t *testing.T) {
	imp := newTestImporter(t, &config.AppConfig{})
	_, err := imp.LoadDir(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestInboxWatch(t *testing.T) {
	inbox := filepath.Join(t.TempDir(), "inbox")
	imp := newTestImporter(t, &config.AppConfig{
		InboxDir: inbox,
		Campaign: config.CampaignConfig{MaxInputLen: 1 << 20},
	})

	// the watch creates the inbox directory on start
	require.DirExists(t, inbox)

	require.NoError(t, os.WriteFile(filepath.Join(inbox, "seed"), []byte{7, 8}, 0644))

	select {
	case input := <-imp.Pending():
		assert.Equal(t, corpus.Input{7, 8}, input)
	case <-time.After(5 * time.Second):
		t.Fatal("seed never arrived through the inbox watch")
	}
}
