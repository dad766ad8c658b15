package tuning

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"arenamind/server/logging"
)

func TestLoadWithoutPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverridesAndKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
seed: match-42
tickRate: 20
logging:
  minimumSeverity: debug
  jsonPath: events.ndjson
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "match-42", cfg.Seed)
	require.Equal(t, 20.0, cfg.TickRate)
	require.Equal(t, Default().MoveSpeed, cfg.MoveSpeed, "unset knobs keep defaults")
	require.Equal(t, Default().ListenAddr, cfg.ListenAddr)
	require.Equal(t, "events.ndjson", cfg.Logging.JSONPath)

	severity, err := cfg.Logging.Severity()
	require.NoError(t, err)
	require.Equal(t, logging.SeverityDebug, severity)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tickRate: -5\n"), 0o644))
	_, err := Load(path)
	require.ErrorContains(t, err, "tickRate")

	require.NoError(t, os.WriteFile(path, []byte("logging:\n  minimumSeverity: loud\n"), 0o644))
	_, err = Load(path)
	require.ErrorContains(t, err, "unknown severity")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
