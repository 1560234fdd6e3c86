package simulation

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-ecoagent/config"
	"go-ecoagent/processor"
	"go-ecoagent/store"
	"go-ecoagent/types"
)

// Engine re-runs the analysis pipeline under a hypothetical
// configuration and diffs the outcome against the baseline. Overrides
// are applied to a transient copy; the store itself is never touched.
type Engine struct {
	pipeline *processor.Pipeline
	store    *store.Store
	th       config.Thresholds
	logger   *zap.Logger
}

func NewEngine(p *processor.Pipeline, st *store.Store, th config.Thresholds, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{pipeline: p, store: st, th: th, logger: logger}
}

// Run executes one what-if scenario: baseline run, override run, diff.
func (e *Engine) Run(ctx context.Context, scenario types.Scenario, opts processor.Options) (*types.SimulationResult, error) {
	if err := validateScenario(scenario); err != nil {
		return nil, err
	}

	baselineRooms := e.store.Snapshot()
	baseline, err := e.pipeline.AnalyzeRooms(ctx, baselineRooms, opts)
	if err != nil {
		return nil, err
	}

	simulatedRooms := e.store.Snapshot()
	applyScenario(simulatedRooms, scenario, e.th)
	simulated, err := e.pipeline.AnalyzeRooms(ctx, simulatedRooms, opts)
	if err != nil {
		return nil, err
	}

	comparison := compare(baseline, simulated)
	verdict := types.RecommendNeedsReview
	if comparison.CostSavingsPct >= e.th.AdoptionThresholdPct {
		verdict = types.RecommendImplement
	}

	e.logger.Info("simulation complete",
		zap.String("scenario", scenario.Name),
		zap.String("type", scenario.Type),
		zap.Float64("energy_savings_pct", comparison.EnergySavingsPct),
		zap.String("recommendation", verdict))

	return &types.SimulationResult{
		SimulationID:   uuid.NewString(),
		Scenario:       scenario,
		Baseline:       baseline,
		Simulated:      simulated,
		Comparison:     comparison,
		Recommendation: verdict,
	}, nil
}

// Compare runs several scenarios against the same baseline snapshot
// and ranks them by energy savings.
func (e *Engine) Compare(ctx context.Context, scenarios []types.Scenario, opts processor.Options) ([]types.ScenarioSavings, error) {
	results := make([]types.ScenarioSavings, 0, len(scenarios))
	for _, scenario := range scenarios {
		result, err := e.Run(ctx, scenario, opts)
		if err != nil {
			return nil, err
		}
		results = append(results, types.ScenarioSavings{
			Scenario: scenario.Name,
			Savings:  result.Comparison,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Savings.EnergySavingsPct > results[j].Savings.EnergySavingsPct
	})
	return results, nil
}

// Templates lists the predefined scenarios the dashboard offers.
func Templates() []types.ScenarioTemplate {
	return []types.ScenarioTemplate{
		{
			ID:              "close_building_night",
			Name:            "Close Building After 8 PM",
			Type:            types.ScenarioCloseBuilding,
			Description:     "Simulate closing a building after 8 PM to save energy",
			EstimatedImpact: "15-25% building energy savings",
		},
		{
			ID:              "reduce_hvac_low_occupancy",
			Name:            "Reduce HVAC in Low Occupancy",
			Type:            types.ScenarioReduceHVAC,
			Description:     "Turn off HVAC in rooms below the low-occupancy band",
			EstimatedImpact: "10-15% campus energy savings",
		},
		{
			ID:              "consolidate_classes",
			Name:            "Consolidate Evening Classes",
			Type:            types.ScenarioShiftSchedule,
			Description:     "Move all evening classes into the two busiest buildings",
			EstimatedImpact: "20-30% evening energy savings",
		},
	}
}

func validateScenario(s types.Scenario) error {
	switch s.Type {
	case types.ScenarioCloseBuilding, types.ScenarioReduceHVAC, types.ScenarioShiftSchedule:
		return nil
	default:
		return &types.InvalidConfigError{Field: "scenario.type", Reason: "unknown scenario type " + s.Type}
	}
}

// applyScenario mutates the transient room copy according to the
// scenario type.
func applyScenario(rooms map[string]types.RoomState, scenario types.Scenario, th config.Thresholds) {
	switch scenario.Type {
	case types.ScenarioCloseBuilding:
		for id, room := range rooms {
			if scenario.BuildingID != "" && room.BuildingID != scenario.BuildingID {
				continue
			}
			rooms[id] = closedRoom(room)
		}

	case types.ScenarioReduceHVAC:
		for id, room := range rooms {
			if scenario.BuildingID != "" && room.BuildingID != scenario.BuildingID {
				continue
			}
			if room.OccupancyRatio() < th.MediumOccupancyRatio {
				room.ACOn = false
				room.FansOn = false
				rooms[id] = room
			}
		}

	case types.ScenarioShiftSchedule:
		keep := busiestBuildings(rooms, targetBuildingCount(scenario))
		for id, room := range rooms {
			if !keep[room.BuildingID] {
				rooms[id] = closedRoom(room)
			}
		}
	}
}

func closedRoom(room types.RoomState) types.RoomState {
	room.CurrentOccupancy = 0
	room.EquipmentRunning = []string{}
	room.ACOn = false
	room.LightsOn = false
	room.FansOn = false
	room.ComputersCount = 0
	return room
}

func targetBuildingCount(scenario types.Scenario) int {
	if scenario.Parameters != nil {
		if v, ok := scenario.Parameters["target_buildings"]; ok {
			if f, ok := v.(float64); ok && f >= 1 {
				return int(f)
			}
		}
	}
	return 2
}

// busiestBuildings picks the n buildings with the most occupants.
func busiestBuildings(rooms map[string]types.RoomState, n int) map[string]bool {
	occupancy := map[string]int{}
	for _, room := range rooms {
		occupancy[room.BuildingID] += room.CurrentOccupancy
	}
	ids := make([]string, 0, len(occupancy))
	for id := range occupancy {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if occupancy[ids[i]] != occupancy[ids[j]] {
			return occupancy[ids[i]] > occupancy[ids[j]]
		}
		return ids[i] < ids[j]
	})
	if len(ids) > n {
		ids = ids[:n]
	}
	keep := map[string]bool{}
	for _, id := range ids {
		keep[id] = true
	}
	return keep
}

// compare derives baseline-minus-simulated deltas for each metric.
func compare(baseline, simulated *types.CampusAnalysis) types.Comparison {
	b, s := baseline.Metrics, simulated.Metrics
	return types.Comparison{
		EnergySavingsKW:    round2(b.TotalEnergyKW - s.TotalEnergyKW),
		EnergySavingsPct:   pct(b.TotalEnergyKW-s.TotalEnergyKW, b.TotalEnergyKW),
		WaterSavingsLPH:    round1(b.TotalWaterLPH - s.TotalWaterLPH),
		WaterSavingsPct:    pct(b.TotalWaterLPH-s.TotalWaterLPH, b.TotalWaterLPH),
		CostSavingsPerHour: round2(b.EstimatedCostPerHour - s.EstimatedCostPerHour),
		CostSavingsPct:     pct(b.EstimatedCostPerHour-s.EstimatedCostPerHour, b.EstimatedCostPerHour),
		OccupancyDelta:     b.TotalOccupancy - s.TotalOccupancy,
	}
}

func pct(delta, base float64) float64 {
	if base == 0 {
		return 0
	}
	return round1(delta / base * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
