package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"BOXOFFICE_FILE", "BOXOFFICE_CHART_OUT", "BOXOFFICE_FORMAT", "BOXOFFICE_LOG_LEVEL", "BOXOFFICE_LOG_FORMAT", "BOXOFFICE_TOP_N", "BOXOFFICE_DELIMITER"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, Config{
		File:      "top_ten_movies_per_year_DFE.csv",
		Format:    "text",
		LogLevel:  "warn",
		LogFormat: "console",
		TopN:      5,
		Delimiter: ",",
	}, cfg)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOXOFFICE_FILE", "movies.csv")
	t.Setenv("BOXOFFICE_TOP_N", "3")
	t.Setenv("BOXOFFICE_CHART_OUT", "ratings.png")
	t.Setenv("BOXOFFICE_DELIMITER", ";")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "movies.csv", cfg.File)
	assert.Equal(t, 3, cfg.TopN)
	assert.Equal(t, "ratings.png", cfg.ChartOut)
	assert.Equal(t, ";", cfg.Delimiter)
}

func TestLoad_DotEnv(t *testing.T) {
	t.Setenv("BOXOFFICE_FORMAT", "")
	os.Unsetenv("BOXOFFICE_FORMAT")
	t.Setenv("BOXOFFICE_LOG_LEVEL", "error")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BOXOFFICE_FORMAT=json\nBOXOFFICE_LOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("BOXOFFICE_FORMAT") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "error", cfg.LogLevel, "process env wins over .env")
}

func TestLoad_BadTopN(t *testing.T) {
	t.Setenv("BOXOFFICE_TOP_N", "zero")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	t.Setenv("BOXOFFICE_TOP_N", "0")
	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
