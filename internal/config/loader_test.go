package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	flags := cmd.Flags()
	flags.String("proxy", "", "")
	flags.Int("timeout", 10, "")
	flags.String("user-agent", "", "")
	flags.StringArrayP("header", "H", nil, "")
	flags.Int("retries", 0, "")
	flags.Int("max-pages", 100, "")
	flags.Bool("json", false, "")
	flags.String("config", "", "")
	flags.String("vectors", "", "")
	flags.Int("slow", 500, "")
	flags.Float64("rate", 0, "")
	return cmd
}

func TestLoaderReadsFlags(t *testing.T) {
	cmd := newTestCommand()
	require.NoError(t, cmd.ParseFlags([]string{
		"--proxy", " http://127.0.0.1:8080 ",
		"-H", "X-A: 1", "-H", "X-B: 2",
		"--vectors", "vectors.txt",
		"--slow", "250",
		"--rate", "7.5",
	}))

	cfg, err := NewLoader(cmd).Load([]string{" http://target/ "})
	require.NoError(t, err)
	assert.Equal(t, "http://target/", cfg.Target)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.Proxy)
	assert.Equal(t, []string{"X-A: 1", "X-B: 2"}, cfg.Headers)
	assert.Equal(t, "vectors.txt", cfg.Vectors)
	assert.Equal(t, 250*time.Millisecond, cfg.Slow)
	assert.Equal(t, 7.5, cfg.Rate)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, 100, cfg.MaxPages)
	// Undefined flags stay zero.
	assert.Empty(t, cfg.Sensitive)
	assert.False(t, cfg.Stateless)
}

func TestLoaderFileFillsUnsetFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
proxy: http://proxy:3128
timeout: 30
max_pages: 20
json: true
headers:
  - "X-File: yes"
slow: 900
concurrency: 8
`), 0o600))

	cmd := newTestCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--timeout", "5"}))

	cfg, err := NewLoader(cmd).Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "http://proxy:3128", cfg.Proxy)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 20, cfg.MaxPages)
	assert.True(t, cfg.JSONOutput)
	assert.Equal(t, []string{"X-File: yes"}, cfg.Headers)
	assert.Equal(t, 900*time.Millisecond, cfg.Slow)
	// The command has no --concurrency, so the file value is ignored.
	assert.Zero(t, cfg.Concurrency)
}

func TestLoaderBadConfigFile(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("timeout: [1, 2"), 0o600))

	cmd := newTestCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--config", broken}))
	_, err := NewLoader(cmd).Load(nil)
	assert.ErrorContains(t, err, "parse config")

	cmd = newTestCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--config", filepath.Join(dir, "missing.yaml")}))
	_, err = NewLoader(cmd).Load(nil)
	assert.ErrorContains(t, err, "read config")
}
