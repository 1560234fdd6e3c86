package types

// Time-of-day buckets used by the environmental overrides.
const (
	TimeMorning   = "morning"
	TimeAfternoon = "afternoon"
	TimeEvening   = "evening"
	TimeNight     = "night"
)

// Occupancy levels derived from the occupancy ratio.
const (
	OccupancyLow    = "low"
	OccupancyMedium = "medium"
	OccupancyHigh   = "high"
)

// Room types recognized by the energy model. Anything else falls back
// to the default base load.
const (
	RoomClassroom = "classroom"
	RoomLab       = "lab"
	RoomLibrary   = "library"
	RoomDorm      = "dorm"
	RoomCafeteria = "cafeteria"
	RoomBathroom  = "bathroom"
)

// DetectionMethodCamera marks occupancy that came from a camera frame.
// Such rooms keep their detected occupancy when an avg_occupancy
// override is applied to the rest of the campus.
const DetectionMethodCamera = "camera"

// RoomState is the last-known state of a room. Room IDs follow the
// "{building}-{number}" format, e.g. "sci-101".
type RoomState struct {
	RoomID             string   `json:"room_id"`
	BuildingID         string   `json:"building_id"`
	RoomType           string   `json:"room_type"`
	Floor              int      `json:"floor"`
	Capacity           int      `json:"capacity"`
	CurrentOccupancy   int      `json:"current_occupancy"`
	EquipmentRunning   []string `json:"equipment_running"`
	ACOn               bool     `json:"ac_on"`
	LightsOn           bool     `json:"lights_on"`
	ACTemperature      int      `json:"ac_temperature"`
	FansOn             bool     `json:"fans_on"`
	ComputersCount     int      `json:"computers_count"`
	OutdoorTemperature int      `json:"outdoor_temperature"`
	TimeOfDay          string   `json:"time_of_day"`
	DetectionMethod    string   `json:"detection_method,omitempty"`
	LastDetectionTime  string   `json:"last_detection_time,omitempty"`
}

// OccupancyRatio returns occupancy/capacity clamped to [0, 1].
// Occupancy may transiently exceed capacity; rate math clamps it.
func (r RoomState) OccupancyRatio() float64 {
	if r.Capacity <= 0 {
		return 0
	}
	ratio := float64(r.CurrentOccupancy) / float64(r.Capacity)
	if ratio > 1 {
		return 1
	}
	if ratio < 0 {
		return 0
	}
	return ratio
}

// Building describes one campus building.
type Building struct {
	Name   string `json:"name"`
	Floors int    `json:"floors"`
	Type   string `json:"type"`
}

// CampusInfo carries campus-level metadata.
type CampusInfo struct {
	Name         string `json:"name"`
	Location     string `json:"location"`
	TotalAreaSqm int    `json:"total_area_sqm"`
}

// RoomTemplate is a room definition as it arrives from an architecture
// import. The store turns templates into live RoomState entries.
type RoomTemplate struct {
	BuildingID string `json:"building_id"`
	Floor      int    `json:"floor"`
	RoomNumber string `json:"room_number"`
	Type       string `json:"type"`
	Capacity   int    `json:"capacity"`
	AreaSqm    int    `json:"area_sqm"`
}

// CampusStructure is the full importable campus layout.
type CampusStructure struct {
	CampusInfo CampusInfo              `json:"campus_info"`
	Buildings  map[string]Building     `json:"buildings"`
	Rooms      map[string]RoomTemplate `json:"rooms"`
}
