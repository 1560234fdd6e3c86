package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, EstimatorDemo, cfg.EstimatorMode)
	require.Equal(t, int64(42), cfg.DemoSeed)
	require.Equal(t, DefaultThresholds(), cfg.Thresholds)
}

func TestLoadThresholdOverrides(t *testing.T) {
	t.Setenv("MEDIUM_OCCUPANCY_RATIO", "0.25")
	t.Setenv("HIGH_OCCUPANCY_RATIO", "0.75")
	t.Setenv("DETECTION_CONFIDENCE", "0.6")
	t.Setenv("CRITICAL_ENERGY_KW", "80")
	t.Setenv("NEAR_CAPACITY_RATIO", "0.9")
	t.Setenv("COMFORT_MIN_C", "16")
	t.Setenv("COMFORT_MAX_C", "28")
	t.Setenv("MIN_RECOMMENDATION_LEN", "20")

	th := Load().Thresholds
	require.Equal(t, 0.25, th.MediumOccupancyRatio)
	require.Equal(t, 0.75, th.HighOccupancyRatio)
	require.Equal(t, 0.6, th.ConfidenceThreshold)
	require.Equal(t, 80.0, th.CriticalEnergyKW)
	require.Equal(t, 0.9, th.NearCapacityRatio)
	require.Equal(t, 16, th.ComfortMinC)
	require.Equal(t, 28, th.ComfortMaxC)
	require.Equal(t, 20, th.MinRecommendationLen)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("RECOMMEND_WORKERS", "many")
	t.Setenv("DETECTION_CONFIDENCE", "high")
	t.Setenv("DETECTOR_TIMEOUT", "soon")

	cfg := Load()
	require.Equal(t, 4, cfg.RecommendWorkers)
	require.Equal(t, DefaultThresholds().ConfidenceThreshold, cfg.Thresholds.ConfidenceThreshold)
	require.Equal(t, 10*time.Second, cfg.DetectorTimeout)
}
