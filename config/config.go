package config

import (
	"os"
	"strconv"
	"time"
)

// Thresholds collects the empirically-chosen constants of the resource
// model. Defaults match the tuned values the dashboard shipped with;
// every one of them can be overridden through the environment.
type Thresholds struct {
	// Occupancy level bands (ratio of capacity).
	MediumOccupancyRatio float64 // below this the level is "low"
	HighOccupancyRatio   float64 // at or above this the level is "high"

	// Detection.
	ConfidenceThreshold float64

	// Critical-building rule.
	CriticalEnergyKW    float64
	LowOccupancyRatePct float64

	// Anomaly rules.
	NearCapacityRatio   float64
	EnergyPerOccupantKW float64
	ComfortMinC         int
	ComfortMaxC         int

	// Cost model (per hour).
	EnergyRatePerKWh  float64
	WaterRatePerLiter float64

	// Simulation adoption rule.
	AdoptionThresholdPct float64

	// Recommendation post-filter.
	MinRecommendationLen int
}

// DefaultThresholds returns the shipped tuning.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MediumOccupancyRatio: 0.30,
		HighOccupancyRatio:   0.70,
		ConfidenceThreshold:  0.4,
		CriticalEnergyKW:     50,
		LowOccupancyRatePct:  30,
		NearCapacityRatio:    0.8,
		EnergyPerOccupantKW:  0.5,
		ComfortMinC:          18,
		ComfortMaxC:          26,
		EnergyRatePerKWh:     0.12,
		WaterRatePerLiter:    0.002,
		AdoptionThresholdPct: 10,
		MinRecommendationLen: 10,
	}
}

// Estimator modes. Demo mode adds a seeded jitter term and drifts the
// generated observations; live mode is fully deterministic.
const (
	EstimatorLive = "live"
	EstimatorDemo = "demo"
)

// Config is the process configuration, read from the environment.
type Config struct {
	Port      string
	ClientURL string

	OpenAIAPIKey string
	OpenAIModel  string

	DetectorURL     string
	DetectorTimeout time.Duration

	RecommendTimeout time.Duration
	RecommendWorkers int

	EstimatorMode string
	DemoSeed      int64

	RefreshSpec string

	Thresholds Thresholds
}

// Load reads the configuration from the environment. Callers load the
// .env file first (godotenv) so env vars win over file entries.
func Load() *Config {
	th := DefaultThresholds()
	th.MediumOccupancyRatio = envFloat("MEDIUM_OCCUPANCY_RATIO", th.MediumOccupancyRatio)
	th.HighOccupancyRatio = envFloat("HIGH_OCCUPANCY_RATIO", th.HighOccupancyRatio)
	th.ConfidenceThreshold = envFloat("DETECTION_CONFIDENCE", th.ConfidenceThreshold)
	th.CriticalEnergyKW = envFloat("CRITICAL_ENERGY_KW", th.CriticalEnergyKW)
	th.LowOccupancyRatePct = envFloat("LOW_OCCUPANCY_RATE_PCT", th.LowOccupancyRatePct)
	th.NearCapacityRatio = envFloat("NEAR_CAPACITY_RATIO", th.NearCapacityRatio)
	th.EnergyPerOccupantKW = envFloat("ENERGY_PER_OCCUPANT_KW", th.EnergyPerOccupantKW)
	th.ComfortMinC = envInt("COMFORT_MIN_C", th.ComfortMinC)
	th.ComfortMaxC = envInt("COMFORT_MAX_C", th.ComfortMaxC)
	th.AdoptionThresholdPct = envFloat("ADOPTION_THRESHOLD_PCT", th.AdoptionThresholdPct)
	th.EnergyRatePerKWh = envFloat("ENERGY_RATE_PER_KWH", th.EnergyRatePerKWh)
	th.WaterRatePerLiter = envFloat("WATER_RATE_PER_LITER", th.WaterRatePerLiter)
	th.MinRecommendationLen = envInt("MIN_RECOMMENDATION_LEN", th.MinRecommendationLen)

	return &Config{
		Port:             envStr("PORT", "8080"),
		ClientURL:        os.Getenv("CLIENT_URL"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:      envStr("OPENAI_MODEL", ""),
		DetectorURL:      envStr("DETECTOR_URL", "http://localhost:8090"),
		DetectorTimeout:  envDuration("DETECTOR_TIMEOUT", 10*time.Second),
		RecommendTimeout: envDuration("RECOMMEND_TIMEOUT", 15*time.Second),
		RecommendWorkers: envInt("RECOMMEND_WORKERS", 4),
		EstimatorMode:    envStr("ESTIMATOR_MODE", EstimatorDemo),
		DemoSeed:         int64(envInt("DEMO_SEED", 42)),
		RefreshSpec:      envStr("REFRESH_CRON", "*/5 * * * *"),
		Thresholds:       th,
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
