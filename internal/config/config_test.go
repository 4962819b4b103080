package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/ilex/internal/config"
	"github.com/stretchr/testify/require"
)

func TestParseFlagsDefaults(t *testing.T) {
	f, err := config.ParseFlags()
	require.NoError(t, err)
	require.GreaterOrEqual(t, f.WorkerThreadCount, uint32(1))
	require.EqualValues(t, 4096, f.MaxStringLength)
}

func TestParseFlagsValidatesMaxStringLength(t *testing.T) {
	t.Setenv("ILEX_MAX_STRING_LENGTH", "1")
	_, err := config.ParseFlags()
	require.Error(t, err)
}

func TestLoadFileDecodesEntrypointAndLogging(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ilex.toml")

	contents := `
max_string_length = 8192

[entrypoint]
filepath = "main.ilex"
symbol = "main"

[std]
filepath = "std.ilex"

[logging.diagnostics]
enable = true
log_filepath = "diag.log"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	f, err := config.LoadFile(path)
	require.NoError(t, err)
	require.EqualValues(t, 8192, f.MaxStringLength)
	require.Equal(t, "main.ilex", f.Entrypoint.Filepath)
	require.Equal(t, "main", f.Entrypoint.Symbol)
	require.Equal(t, "std.ilex", f.Std.Filepath)
	require.True(t, f.Logging.Diagnostics.Enable)
	require.Equal(t, "diag.log", f.Logging.Diagnostics.LogFilepath)
	require.False(t, f.Logging.Types.Enable)
}

func TestLoadFileMissingReturnsError(t *testing.T) {
	_, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
