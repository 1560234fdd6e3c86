package types

// Simulation scenario types.
const (
	ScenarioCloseBuilding = "close_building"
	ScenarioReduceHVAC    = "reduce_hvac"
	ScenarioShiftSchedule = "shift_schedule"
)

// Simulation verdicts derived from the cost-savings threshold.
const (
	RecommendImplement   = "Implement"
	RecommendNeedsReview = "Needs Review"
)

// Scenario is a what-if configuration override.
type Scenario struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	BuildingID string         `json:"building_id,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// ScenarioTemplate is a predefined scenario offered to the dashboard.
type ScenarioTemplate struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Type            string `json:"type"`
	Description     string `json:"description"`
	EstimatedImpact string `json:"estimated_impact"`
}

// Comparison holds baseline-minus-simulated deltas for each metric,
// as absolute values and as percentages of the baseline.
type Comparison struct {
	EnergySavingsKW    float64 `json:"energy_savings_kw"`
	EnergySavingsPct   float64 `json:"energy_savings_pct"`
	WaterSavingsLPH    float64 `json:"water_savings_lph"`
	WaterSavingsPct    float64 `json:"water_savings_pct"`
	CostSavingsPerHour float64 `json:"cost_savings_per_hour"`
	CostSavingsPct     float64 `json:"cost_savings_pct"`
	OccupancyDelta     int     `json:"occupancy_delta"`
}

// SimulationResult pairs a baseline run with a simulated run plus the diff.
type SimulationResult struct {
	SimulationID   string          `json:"simulation_id"`
	Scenario       Scenario        `json:"scenario"`
	Baseline       *CampusAnalysis `json:"baseline"`
	Simulated      *CampusAnalysis `json:"simulated"`
	Comparison     Comparison      `json:"comparison"`
	Recommendation string          `json:"recommendation"`
}

// ScenarioSavings is one entry of a multi-scenario comparison, ranked
// by energy savings.
type ScenarioSavings struct {
	Scenario string     `json:"scenario"`
	Savings  Comparison `json:"savings"`
}
