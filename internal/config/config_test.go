package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, used, err := Load("", nil)
	require.NoError(t, err)
	require.Empty(t, used)
	require.Equal(t, DefaultSourceDir, cfg.SourceDir)
	require.Equal(t, DefaultOutputDir, cfg.OutputDir)
	require.Equal(t, "site.yaml", cfg.SiteFile)
	require.Equal(t, 3000, cfg.Port)
	require.Equal(t, "info", cfg.LogLevel)
	require.GreaterOrEqual(t, cfg.Workers, 1)
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "xmtp-site.yaml"), []byte("outputDir: public\nport: 8080\nlogLevel: warn\n"), 0o644))
	t.Setenv("XMTPSITE_PORT", "9090")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--log-level=debug"}))

	cfg, used, err := Load("", flags)
	require.NoError(t, err)
	require.Equal(t, "xmtp-site.yaml", filepath.Base(used))
	require.Equal(t, "public", cfg.OutputDir)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
}
