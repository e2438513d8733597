package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "kushukushu-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.True(t, cfg.Approval.AdminThreshold.Equal(decimal.NewFromInt(50000)))
	assert.True(t, cfg.Approval.ReconciliationTolerance.Equal(decimal.NewFromInt(10)))
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		Approval: ApprovalConfig{
			AdminThreshold:          decimal.NewFromInt(75000),
			ReconciliationTolerance: decimal.NewFromInt(25),
		},
	}
	applyDefaults(cfg)

	assert.True(t, cfg.Approval.AdminThreshold.Equal(decimal.NewFromInt(75000)))
	assert.True(t, cfg.Approval.ReconciliationTolerance.Equal(decimal.NewFromInt(25)))
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	require.NoError(t, cfg.validate())

	t.Run("idle conns exceed open conns", func(t *testing.T) {
		bad := &Config{}
		applyDefaults(bad)
		bad.Database.MaxIdleConns = 100
		assert.Error(t, bad.validate())
	})

	t.Run("negative threshold", func(t *testing.T) {
		bad := &Config{}
		applyDefaults(bad)
		bad.Approval.AdminThreshold = decimal.NewFromInt(-1)
		assert.Error(t, bad.validate())
	})

	t.Run("production requires jwt secret", func(t *testing.T) {
		bad := &Config{}
		applyDefaults(bad)
		bad.App.Env = "production"
		assert.Error(t, bad.validate())
	})
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "app",
		Password: "p@ss/word",
		DBName:   "kushukushu",
		SSLMode:  "require",
	}
	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	assert.NotContains(t, dsn, "p@ss/word")
}

func TestDecimalOrZero(t *testing.T) {
	assert.True(t, decimalOrZero("").IsZero())
	assert.True(t, decimalOrZero("not-a-number").IsZero())
	assert.True(t, decimalOrZero("50000").Equal(decimal.NewFromInt(50000)))
}
