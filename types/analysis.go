package types

// RoomAnalysis is the derived per-room estimate. It is computed fresh
// on every analysis run and never persisted.
type RoomAnalysis struct {
	RoomID            string   `json:"room_id"`
	BuildingID        string   `json:"building_id"`
	RoomType          string   `json:"room_type"`
	CurrentOccupancy  int      `json:"current_occupancy"`
	Capacity          int      `json:"capacity"`
	OccupancyLevel    string   `json:"occupancy_level"`
	EstimatedEnergyKW float64  `json:"estimated_energy_kw"`
	EstimatedWaterLPH float64  `json:"estimated_water_lph"`
	EstimatedCO2PPM   int      `json:"estimated_co2_ppm"`
	Anomalies         []string `json:"anomalies"`
	SavingsPotential  float64  `json:"savings_potential"`
	Recommendations   []string `json:"recommendations"`
}

// BuildingAnalysis aggregates the room analyses under one building.
type BuildingAnalysis struct {
	BuildingID       string                   `json:"building_id"`
	BuildingName     string                   `json:"building_name,omitempty"`
	TotalRooms       int                      `json:"total_rooms"`
	TotalEnergyKW    float64                  `json:"total_energy_kw"`
	TotalWaterLPH    float64                  `json:"total_water_lph"`
	TotalOccupancy   int                      `json:"total_occupancy"`
	TotalCapacity    int                      `json:"total_capacity"`
	OccupancyRate    float64                  `json:"occupancy_rate"`
	AvgEnergyPerRoom float64                  `json:"avg_energy_per_room"`
	Critical         bool                     `json:"critical"`
	CriticalReason   string                   `json:"critical_reason,omitempty"`
	SavingsPotential float64                  `json:"savings_potential"`
	Recommendations  []string                 `json:"recommendations"`
	RoomStates       map[string]*RoomAnalysis `json:"room_states"`
}

// CampusMetrics are the campus-wide totals.
type CampusMetrics struct {
	TotalEnergyKW        float64 `json:"total_energy_kw"`
	TotalWaterLPH        float64 `json:"total_water_lph"`
	TotalOccupancy       int     `json:"total_occupancy"`
	TotalCapacity        int     `json:"total_capacity"`
	TotalBuildings       int     `json:"total_buildings"`
	TotalRooms           int     `json:"total_rooms"`
	AvgOccupancyRate     float64 `json:"avg_occupancy_rate"`
	EstimatedCostPerHour float64 `json:"estimated_cost_per_hour"`
}

// CriticalBuilding flags a building with high energy use and low occupancy.
type CriticalBuilding struct {
	BuildingID string  `json:"building_id"`
	Reason     string  `json:"reason"`
	EnergyKW   float64 `json:"energy_kw"`
}

// ExecutionInfo reports what one analysis run actually covered.
type ExecutionInfo struct {
	RoomsAnalyzed       int        `json:"rooms_analyzed"`
	BuildingsAnalyzed   int        `json:"buildings_analyzed"`
	BudgetLevel         string     `json:"budget_level"`
	RecommendationCalls int        `json:"recommendation_calls"`
	EnvironmentalParams *EnvParams `json:"environmental_params,omitempty"`
}

// CampusAnalysis is the top-level response of one analysis run.
type CampusAnalysis struct {
	AnalysisID            string                       `json:"analysis_id"`
	CampusName            string                       `json:"campus_name"`
	Timestamp             string                       `json:"timestamp"`
	Metrics               CampusMetrics                `json:"campus_metrics"`
	BuildingStates        map[string]*BuildingAnalysis `json:"building_states"`
	CriticalBuildings     []CriticalBuilding           `json:"critical_buildings"`
	CampusRecommendations []string                     `json:"campus_recommendations"`
	SavingsPotential      float64                      `json:"savings_potential"`
	ExecutionInfo         *ExecutionInfo               `json:"execution_info,omitempty"`
}

// EnvParams are per-request environmental overrides. Nil fields keep
// the stored room state untouched.
type EnvParams struct {
	AvgOccupancy       *int    `json:"avg_occupancy,omitempty" form:"avg_occupancy"`
	LightsOn           *bool   `json:"lights_on,omitempty" form:"lights_on"`
	ACOn               *bool   `json:"ac_on,omitempty" form:"ac_on"`
	ACTemperature      *int    `json:"ac_temperature,omitempty" form:"ac_temperature"`
	FansOn             *bool   `json:"fans_on,omitempty" form:"fans_on"`
	ComputersCount     *int    `json:"computers_count,omitempty" form:"computers_count"`
	TimeOfDay          *string `json:"time_of_day,omitempty" form:"time_of_day"`
	OutdoorTemperature *int    `json:"outdoor_temperature,omitempty" form:"outdoor_temperature"`
}
