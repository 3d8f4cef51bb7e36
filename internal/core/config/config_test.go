package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Load: file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
log_level: debug
scene:
  name: workbench
  tick_interval: 100ms
transport:
  kind: quic
  address: 127.0.0.1:9443
  dial_timeout: 2s
  insecure_skip_verify: true
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, "debug", cfg.LogLevel)
		require.Equal(t, "workbench", cfg.Scene.Name)
		require.Equal(t, 100*time.Millisecond, cfg.Scene.TickInterval.Std())
		require.Equal(t, "quic", cfg.Transport.Kind)
		require.Equal(t, "127.0.0.1:9443", cfg.Transport.Address)
		require.Equal(t, 2*time.Second, cfg.Transport.DialTimeout.Std())
		require.True(t, cfg.Transport.InsecureSkipVerify)
	})

	t.Run("Load: absent fields keep defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o600))

		cfg, err := Load(path)
		require.NoError(t, err)
		require.Equal(t, "warn", cfg.LogLevel)
		require.Equal(t, Default().Scene.Name, cfg.Scene.Name)
		require.Equal(t, Default().Scene.TickInterval, cfg.Scene.TickInterval)
		require.Equal(t, Default().Transport.Kind, cfg.Transport.Kind)
	})

	t.Run("Load: missing file fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("Load: bad duration fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("scene:\n  tick_interval: soon\n"), 0o600))

		_, err := Load(path)
		require.Error(t, err)
	})
}
