package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "stockledger", cfg.App.Name)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "0", cfg.Report.PackagingCostPerOrder)
}

func TestValidate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		require.NoError(t, cfg.validate())
	})

	t.Run("idle conns cannot exceed open conns", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Database.MaxIdleConns = 100
		require.Error(t, cfg.validate())
	})

	t.Run("production requires password and ssl", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.App.Env = "production"
		require.Error(t, cfg.validate())

		cfg.Database.Password = "secret"
		require.Error(t, cfg.validate())

		cfg.Database.SSLMode = "require"
		require.NoError(t, cfg.validate())
	})

	t.Run("bad packaging cost rejected", func(t *testing.T) {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.Report.PackagingCostPerOrder = "abc"
		require.Error(t, cfg.validate())

		cfg.Report.PackagingCostPerOrder = "-1"
		require.Error(t, cfg.validate())
	})
}

func TestPackagingCost(t *testing.T) {
	r := &ReportConfig{PackagingCostPerOrder: "2.50"}
	cost, err := r.PackagingCost()
	require.NoError(t, err)
	assert.True(t, cost.Equal(decimal.RequireFromString("2.50")))

	empty := &ReportConfig{}
	cost, err = empty.PackagingCost()
	require.NoError(t, err)
	assert.True(t, cost.IsZero())
}

func TestDSN(t *testing.T) {
	d := &DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "app",
		Password: "p@ss:word",
		DBName:   "ledger",
		SSLMode:  "require",
	}
	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5433")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters must be escaped.
	assert.NotContains(t, dsn, "p@ss:word")
}
