package xconf

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reloadResult struct {
	workers int
	err     error
}

func startWatcher(t *testing.T, cfg *Config) <-chan reloadResult {
	t.Helper()
	results := make(chan reloadResult, 16)
	w, err := Watch(cfg, func(c *Config, err error) {
		results <- reloadResult{workers: c.Client().Int("pool.workers"), err: err}
	}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() { stopped <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-stopped)
	})
	return results
}

func waitReload(t *testing.T, results <-chan reloadResult) reloadResult {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(3 * time.Second):
		t.Fatal("no reload observed")
		return reloadResult{}
	}
}

func TestWatch_ReloadOnWrite(t *testing.T) {
	path := writeFile(t, "config.yaml", "pool:\n  workers: 1\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	results := startWatcher(t, cfg)

	// 给 inotify 注册留出时间
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("pool:\n  workers: 6\n"), 0o600))

	r := waitReload(t, results)
	require.NoError(t, r.err)
	assert.Equal(t, 6, r.workers)
	assert.GreaterOrEqual(t, cfg.Version(), uint64(2))
}

func TestWatch_ReloadOnRename(t *testing.T) {
	path := writeFile(t, "config.yaml", "pool:\n  workers: 1\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	results := startWatcher(t, cfg)

	time.Sleep(50 * time.Millisecond)
	tmp := filepath.Join(filepath.Dir(path), "config.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("pool:\n  workers: 9\n"), 0o600))
	require.NoError(t, os.Rename(tmp, path))

	r := waitReload(t, results)
	require.NoError(t, r.err)
	assert.Equal(t, 9, r.workers)
}

func TestWatch_ParseErrorKeepsConfig(t *testing.T) {
	path := writeFile(t, "config.yaml", "pool:\n  workers: 2\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	results := startWatcher(t, cfg)

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("pool: [unclosed"), 0o600))

	r := waitReload(t, results)
	assert.ErrorIs(t, r.err, ErrParseFailed)
	assert.Equal(t, 2, r.workers)
}

func TestWatch_Errors(t *testing.T) {
	_, err := Watch(nil, nil)
	assert.ErrorIs(t, err, ErrNilConfig)

	cfg, err := LoadBytes([]byte("a: 1"), FormatYAML)
	require.NoError(t, err)
	_, err = Watch(cfg, nil)
	assert.ErrorIs(t, err, ErrNotFromFile)
}

func TestWatcher_RunOnce(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", "a: 1\n"))
	require.NoError(t, err)
	w, err := Watch(cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))
	assert.ErrorIs(t, w.Run(ctx), ErrWatcherRunning)
	assert.NoError(t, w.Close())
}

func TestWatcher_CloseWithoutRun(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", "a: 1\n"))
	require.NoError(t, err)
	w, err := Watch(cfg, nil)
	require.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
