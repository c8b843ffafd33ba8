package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("PRISMVIEW_CONFIG_DIR", t.TempDir())
	cfg, err := New()
	require.NoError(t, err)
	require.Equal(t, "prismview", cfg.AppName)
	require.Equal(t, "127.0.0.1", cfg.Listen)
	require.Equal(t, 9000, cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.False(t, cfg.Pprof)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("PRISMVIEW_CONFIG_DIR", t.TempDir())
	t.Setenv("PRISMVIEW_PORT", "9123")
	t.Setenv("PRISMVIEW_LISTEN", "0.0.0.0")
	cfg, err := New()
	require.NoError(t, err)
	require.Equal(t, 9123, cfg.Port)
	require.Equal(t, "0.0.0.0", cfg.Listen)
}

func TestEnvFileOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(
		t, os.WriteFile(
			filepath.Join(dir, ".env"),
			[]byte(
				"# relay settings\n"+
					"PRISMVIEW_PORT=9555\n"+
					"PRISMVIEW_LOG_LEVEL = debug\n"+
					"\n"+
					"not a key value line\n",
			), 0o600,
		),
	)
	t.Setenv("PRISMVIEW_CONFIG_DIR", dir)
	cfg, err := New()
	require.NoError(t, err)
	require.Equal(t, 9555, cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvKVAndPrint(t *testing.T) {
	cfg := &C{AppName: "prismview", Listen: "127.0.0.1", Port: 9000}
	kvs := EnvKV(*cfg)
	m := make(map[string]string)
	for _, kv := range kvs {
		m[kv.Key] = kv.Value
	}
	require.Equal(t, "9000", m["PRISMVIEW_PORT"])
	require.Equal(t, "127.0.0.1", m["PRISMVIEW_LISTEN"])
}
