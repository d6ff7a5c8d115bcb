package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, `
tables_dir: ./tables
live_price_db: prices.db
prefer_live_prices: true
variants: [sap, der]
output_dir: out
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "./tables", cfg.TablesDir)
	assert.Equal(t, "prices.db", cfg.LivePriceDB)
	assert.True(t, cfg.PreferLivePrices)
	assert.Equal(t, []string{"sap", "der"}, cfg.Variants)
	assert.Equal(t, "out", cfg.OutputDir)
}

func TestLoadKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "output_dir: out\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"sap"}, cfg.Variants)
	assert.False(t, cfg.PreferLivePrices)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "variants: [sap\n"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "prefer_live_prices: true\n"))
	assert.ErrorContains(t, err, "live_price_db")
}
