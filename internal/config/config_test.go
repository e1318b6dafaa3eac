package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.Scraper.Headless)
	assert.Equal(t, "data/commodities.csv", cfg.Vocab.CommodityFile)
	assert.False(t, cfg.Classifier.Enabled)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workspace: /tmp/mbtest
vocab:
  commodity_file: /etc/mandibot/commodities.csv
scraper:
  headless: false
  nav_timeout: 45s
classifier:
  enabled: true
  base_url: http://models:8001
  timeout: 2s
logging:
  debug: true
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/mbtest", cfg.Workspace)
	assert.Equal(t, "/etc/mandibot/commodities.csv", cfg.Vocab.CommodityFile)
	assert.Equal(t, "data/districts.csv", cfg.Vocab.DistrictFile, "unset keys keep defaults")
	assert.False(t, cfg.Scraper.Headless)
	assert.Equal(t, "45s", cfg.Scraper.NavTimeout)
	assert.True(t, cfg.Classifier.Enabled)
	assert.Equal(t, 2*time.Second, cfg.ClassifierTimeout())
	assert.True(t, cfg.Logging.Debug)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workspace: [unclosed"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MANDIBOT_WORKSPACE", "/srv/mandibot")
	t.Setenv("MANDIBOT_CLASSIFIER_URL", "http://classifier:9000")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workspace: /tmp/ignored\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/mandibot", cfg.Workspace)
	assert.Equal(t, "http://classifier:9000", cfg.Classifier.BaseURL)
	assert.True(t, cfg.Classifier.Enabled)
}

func TestClassifierTimeoutFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Classifier.Timeout = "garbage"
	assert.Equal(t, 5*time.Second, cfg.ClassifierTimeout())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Workspace = "/data/mb"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/data/mb", loaded.Workspace)
	assert.Equal(t, cfg.Scraper.Endpoint, loaded.Scraper.Endpoint)
}
