package estimator

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"go-ecoagent/config"
	"go-ecoagent/types"
)

// Estimator derives a RoomAnalysis from a room's current state.
// Implementations must be safe for concurrent use.
type Estimator interface {
	Analyze(room types.RoomState) types.RoomAnalysis
}

// Base hourly loads per room type. Rooms of an unknown type fall back
// to the classroom-like default.
var baseEnergyKW = map[string]float64{
	types.RoomClassroom: 3.5,
	types.RoomLab:       8.0,
	types.RoomLibrary:   2.5,
	types.RoomDorm:      1.2,
	types.RoomCafeteria: 12.0,
	types.RoomBathroom:  0.8,
}

var baseWaterLPH = map[string]float64{
	types.RoomClassroom: 0.5,
	types.RoomLab:       2.0,
	types.RoomLibrary:   0.5,
	types.RoomDorm:      6.0,
	types.RoomCafeteria: 45.0,
	types.RoomBathroom:  18.0,
}

const (
	defaultEnergyKW    = 3.0
	defaultWaterLPH    = 0.5
	baselineCO2PPM     = 400
	co2PerOccupancyPct = 4.0
)

// Live is the deterministic estimator used for detection-driven
// analysis. Same inputs always yield the same analysis.
type Live struct {
	th config.Thresholds
}

// NewLive returns the production estimator.
func NewLive(th config.Thresholds) *Live {
	return &Live{th: th}
}

func (e *Live) Analyze(room types.RoomState) types.RoomAnalysis {
	return analyze(room, e.th, 1.0)
}

// Demo wraps another intensity model with a seeded jitter term so demo
// dashboards show some movement. It is never selected for
// detection-driven analysis.
type Demo struct {
	th  config.Thresholds
	mu  sync.Mutex
	rng *rand.Rand
}

// NewDemo returns a demo estimator seeded for reproducible jitter.
func NewDemo(th config.Thresholds, seed int64) *Demo {
	return &Demo{th: th, rng: rand.New(rand.NewSource(seed))}
}

func (e *Demo) Analyze(room types.RoomState) types.RoomAnalysis {
	e.mu.Lock()
	jitter := 0.95 + e.rng.Float64()*0.10
	e.mu.Unlock()
	return analyze(room, e.th, jitter)
}

// OccupancyLevel is a pure function of the occupancy ratio.
func OccupancyLevel(ratio float64, th config.Thresholds) string {
	switch {
	case ratio >= th.HighOccupancyRatio:
		return types.OccupancyHigh
	case ratio >= th.MediumOccupancyRatio:
		return types.OccupancyMedium
	default:
		return types.OccupancyLow
	}
}

func analyze(room types.RoomState, th config.Thresholds, jitter float64) types.RoomAnalysis {
	ratio := room.OccupancyRatio()

	intensity := 0.3 + 0.7*ratio
	if !room.ACOn {
		intensity *= 0.6
	}
	if !room.LightsOn {
		intensity *= 0.7
	}
	if room.FansOn {
		intensity *= 1.05
	}
	intensity *= 1 + 0.05*float64(room.ComputersCount)
	intensity *= jitter

	energy := baseEnergy(room.RoomType) * intensity
	water := baseWater(room.RoomType) * (0.3 + 0.7*ratio) * jitter
	co2 := baselineCO2PPM + int(ratio*100*co2PerOccupancyPct)

	anomalies := detectAnomalies(room, energy, th)

	return types.RoomAnalysis{
		RoomID:            room.RoomID,
		BuildingID:        room.BuildingID,
		RoomType:          room.RoomType,
		CurrentOccupancy:  room.CurrentOccupancy,
		Capacity:          room.Capacity,
		OccupancyLevel:    OccupancyLevel(ratio, th),
		EstimatedEnergyKW: round2(energy),
		EstimatedWaterLPH: round1(water),
		EstimatedCO2PPM:   co2,
		Anomalies:         anomalies,
		SavingsPotential:  savingsPotential(room, energy, len(anomalies), th),
		Recommendations:   []string{},
	}
}

// detectAnomalies evaluates every rule independently; all matches are
// reported.
func detectAnomalies(room types.RoomState, energy float64, th config.Thresholds) []string {
	anomalies := []string{}

	if room.CurrentOccupancy == 0 && len(room.EquipmentRunning) > 0 {
		anomalies = append(anomalies, "equipment running with no occupants")
	}
	if room.Capacity > 0 && float64(room.CurrentOccupancy) >= th.NearCapacityRatio*float64(room.Capacity) {
		anomalies = append(anomalies, fmt.Sprintf("occupancy at %d of %d near capacity", room.CurrentOccupancy, room.Capacity))
	}
	if room.CurrentOccupancy > 0 {
		perOccupant := energy / float64(room.CurrentOccupancy)
		if perOccupant > th.EnergyPerOccupantKW {
			anomalies = append(anomalies, fmt.Sprintf("energy per occupant %.2f kW above %.2f kW ceiling", perOccupant, th.EnergyPerOccupantKW))
		}
	}
	if comfort := temperatureComfort(room, th); comfort != "comfortable" {
		anomalies = append(anomalies, "temperature outside comfort band: "+comfort)
	}

	return anomalies
}

// temperatureComfort mirrors the dashboard's coarse comfort model: AC
// keeps a room comfortable unless it is cold outside; without AC the
// outdoor temperature takes over.
func temperatureComfort(room types.RoomState, th config.Thresholds) string {
	if room.ACOn {
		if room.OutdoorTemperature < th.ComfortMinC {
			return "too_cold"
		}
		return "comfortable"
	}
	if room.OutdoorTemperature > th.ComfortMaxC {
		return "too_hot"
	}
	if room.OutdoorTemperature < th.ComfortMinC {
		return "too_cold"
	}
	return "comfortable"
}

// savingsPotential is a heuristic: each fired anomaly contributes a
// fixed slice, and energy-per-occupant above the efficient baseline
// contributes proportionally to the excess. Clamped to [0, 100].
func savingsPotential(room types.RoomState, energy float64, anomalyCount int, th config.Thresholds) float64 {
	sp := 8.0 * float64(anomalyCount)
	if room.CurrentOccupancy > 0 && th.EnergyPerOccupantKW > 0 {
		perOccupant := energy / float64(room.CurrentOccupancy)
		if excess := perOccupant/th.EnergyPerOccupantKW - 1; excess > 0 {
			sp += 40 * excess
		}
	}
	if sp > 100 {
		sp = 100
	}
	if sp < 0 {
		sp = 0
	}
	return round1(sp)
}

func baseEnergy(roomType string) float64 {
	if base, ok := baseEnergyKW[roomType]; ok {
		return base
	}
	return defaultEnergyKW
}

func baseWater(roomType string) float64 {
	if base, ok := baseWaterLPH[roomType]; ok {
		return base
	}
	return defaultWaterLPH
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
