package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"scorecard/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	rq := require.New(t)

	cfg, err := config.Load()
	rq.NoError(err)

	rq.Equal(":8080", cfg.HTTP.ListenAddress)
	rq.InDelta(600, cfg.Scoring.ScoreRef, 1e-12)
	rq.InDelta(20, cfg.Scoring.PDO, 1e-12)
	rq.InDelta(20, cfg.Scoring.OddsRef, 1e-12)
	rq.InDelta(600, cfg.Scoring.MediumThreshold, 1e-12)
	rq.InDelta(700, cfg.Scoring.LowThreshold, 1e-12)
	rq.Equal("CustomerID", cfg.Scoring.IDColumn)
	rq.Equal(30*time.Minute, cfg.Scoring.DatasetTTL)
	rq.Equal(15*time.Minute, cfg.Refresh.Interval)
	rq.True(cfg.HTTP.LogMasking)
}

func TestLoadOverrides(t *testing.T) {
	rq := require.New(t)

	t.Setenv("RISK_MEDIUM_THRESHOLD", "580")
	t.Setenv("REFRESH_SOURCES", "daily.csv,monthly.csv")
	t.Setenv("MODEL_PATH", "/models/behavior_model.json")
	t.Setenv("SCALER_PATH", "/models/behavior_scaler.json")
	t.Setenv("HTTP_LOG_MASKING", "false")

	cfg, err := config.Load()
	rq.NoError(err)

	rq.InDelta(580, cfg.Scoring.MediumThreshold, 1e-12)
	rq.Equal([]string{"daily.csv", "monthly.csv"}, cfg.Refresh.Sources)
	rq.Equal("/models/behavior_model.json", cfg.Model.Path)
	rq.Equal("/models/behavior_scaler.json", cfg.Model.ScalerPath)
	rq.False(cfg.HTTP.LogMasking)
}
