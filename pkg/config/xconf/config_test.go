package xconf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type poolSection struct {
	Workers int           `koanf:"workers"`
	Name    string        `koanf:"name"`
	Latency time.Duration `koanf:"latency"`
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "pool:\n  workers: 8\n  latency: 15ms\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, cfg.Format())
	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, uint64(1), cfg.Version())

	// 未出现在配置中的字段保留调用方预置的默认值
	got := poolSection{Name: "default"}
	require.NoError(t, cfg.Unmarshal("pool", &got))
	assert.Equal(t, poolSection{Workers: 8, Name: "default", Latency: 15 * time.Millisecond}, got)
	assert.Equal(t, 8, cfg.Client().Int("pool.workers"))
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"pool": {"workers": 2, "name": "json"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, cfg.Format())

	var got poolSection
	require.NoError(t, cfg.Unmarshal("pool", &got))
	assert.Equal(t, 2, got.Workers)
	assert.Equal(t, "json", got.Name)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Empty(t, cfg.Client().Keys())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("")
	assert.ErrorIs(t, err, ErrEmptyPath)

	_, err = Load("config.toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrLoadFailed)

	_, err = Load(writeFile(t, "bad.json", "{not json"))
	assert.ErrorIs(t, err, ErrParseFailed)
}

func TestLoadBytes(t *testing.T) {
	cfg, err := LoadBytes([]byte("a:\n  b: 1\n"), FormatYAML, WithDelim("|"), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Client().Int("a|b"))
	assert.Empty(t, cfg.Path())
	assert.ErrorIs(t, cfg.Reload(), ErrNotFromFile)

	_, err = LoadBytes(nil, Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestConfig_UnmarshalCustomTag(t *testing.T) {
	type section struct {
		Workers int `cfg:"workers"`
	}
	cfg, err := LoadBytes([]byte(`{"pool":{"workers":3}}`), FormatJSON, WithTag("cfg"))
	require.NoError(t, err)

	var got section
	require.NoError(t, cfg.Unmarshal("pool", &got))
	assert.Equal(t, 3, got.Workers)
}

func TestConfig_UnmarshalFailed(t *testing.T) {
	cfg, err := LoadBytes([]byte("pool:\n  workers: many\n"), FormatYAML)
	require.NoError(t, err)

	var got poolSection
	assert.ErrorIs(t, cfg.Unmarshal("pool", &got), ErrUnmarshalFailed)
}

func TestConfig_ReloadKeepsOldOnError(t *testing.T) {
	path := writeFile(t, "config.yaml", "pool:\n  workers: 1\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("pool: [unclosed"), 0o600))
	assert.ErrorIs(t, cfg.Reload(), ErrParseFailed)
	assert.Equal(t, 1, cfg.Client().Int("pool.workers"))
	assert.Equal(t, uint64(1), cfg.Version())

	require.NoError(t, os.WriteFile(path, []byte("pool:\n  workers: 4\n"), 0o600))
	require.NoError(t, cfg.Reload())
	assert.Equal(t, 4, cfg.Client().Int("pool.workers"))
	assert.Equal(t, uint64(2), cfg.Version())
}
