package estimator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"go-ecoagent/config"
	"go-ecoagent/types"
)

func baseRoom() types.RoomState {
	return types.RoomState{
		RoomID:             "sci-101",
		BuildingID:         "sci",
		RoomType:           types.RoomClassroom,
		Capacity:           30,
		CurrentOccupancy:   15,
		EquipmentRunning:   []string{"lights"},
		ACOn:               true,
		LightsOn:           true,
		ACTemperature:      22,
		OutdoorTemperature: 25,
		TimeOfDay:          types.TimeAfternoon,
	}
}

func TestOccupancyLevelBands(t *testing.T) {
	th := config.DefaultThresholds()

	require.Equal(t, types.OccupancyLow, OccupancyLevel(0, th))
	require.Equal(t, types.OccupancyLow, OccupancyLevel(0.29, th))
	require.Equal(t, types.OccupancyMedium, OccupancyLevel(0.30, th))
	require.Equal(t, types.OccupancyMedium, OccupancyLevel(0.69, th))
	require.Equal(t, types.OccupancyHigh, OccupancyLevel(0.70, th))
	require.Equal(t, types.OccupancyHigh, OccupancyLevel(1, th))
}

func TestLiveEnergyEstimate(t *testing.T) {
	est := NewLive(config.DefaultThresholds())

	// Half-full classroom, AC and lights on, no fans or computers:
	// 3.5 * (0.3 + 0.7*0.5) = 2.275, rounded to two decimals.
	a := est.Analyze(baseRoom())
	require.InDelta(t, 2.275, a.EstimatedEnergyKW, 0.01)
	require.Equal(t, types.OccupancyMedium, a.OccupancyLevel)
	require.Equal(t, 600, a.EstimatedCO2PPM)
}

func TestLiveModifiers(t *testing.T) {
	est := NewLive(config.DefaultThresholds())

	room := baseRoom()
	room.ACOn = false
	room.LightsOn = false
	room.FansOn = true
	room.ComputersCount = 4
	// 3.5 * 0.65 * 0.6 * 0.7 * 1.05 * 1.2 = 1.2039...
	a := est.Analyze(room)
	require.InDelta(t, 1.2, a.EstimatedEnergyKW, 0.005)
}

func TestLiveIsDeterministic(t *testing.T) {
	est := NewLive(config.DefaultThresholds())

	first := est.Analyze(baseRoom())
	for i := 0; i < 5; i++ {
		require.Equal(t, first, est.Analyze(baseRoom()))
	}
}

func TestDemoJitterIsSeeded(t *testing.T) {
	th := config.DefaultThresholds()
	a := NewDemo(th, 42)
	b := NewDemo(th, 42)

	for i := 0; i < 5; i++ {
		require.Equal(t, a.Analyze(baseRoom()), b.Analyze(baseRoom()))
	}
}

func TestEmptyRoomWithEquipmentAnomaly(t *testing.T) {
	est := NewLive(config.DefaultThresholds())

	room := baseRoom()
	room.CurrentOccupancy = 0
	a := est.Analyze(room)
	require.Contains(t, a.Anomalies, "equipment running with no occupants")
}

func TestEmptyRoomWithoutEquipmentHasNoAnomaly(t *testing.T) {
	est := NewLive(config.DefaultThresholds())

	room := baseRoom()
	room.CurrentOccupancy = 0
	room.EquipmentRunning = []string{}
	a := est.Analyze(room)
	require.Empty(t, a.Anomalies)
}

func TestNearCapacityAnomaly(t *testing.T) {
	est := NewLive(config.DefaultThresholds())

	room := baseRoom()
	room.CurrentOccupancy = 24 // exactly 0.8 * 30
	a := est.Analyze(room)
	require.NotEmpty(t, a.Anomalies)
	require.Contains(t, a.Anomalies[0], "near capacity")
}

func TestEnergyPerOccupantAnomaly(t *testing.T) {
	est := NewLive(config.DefaultThresholds())

	// One person in a lab: 8.0 * (0.3 + 0.7/30) fully attributed to a
	// single occupant, well above the per-occupant ceiling.
	room := baseRoom()
	room.RoomType = types.RoomLab
	room.CurrentOccupancy = 1
	a := est.Analyze(room)

	found := false
	for _, anomaly := range a.Anomalies {
		if len(anomaly) > 0 && anomaly[:6] == "energy" {
			found = true
		}
	}
	require.True(t, found, "expected energy per occupant anomaly, got %v", a.Anomalies)
	require.Greater(t, a.SavingsPotential, 0.0)
}

func TestTemperatureComfortAnomaly(t *testing.T) {
	est := NewLive(config.DefaultThresholds())

	room := baseRoom()
	room.ACOn = false
	room.EquipmentRunning = []string{}
	room.OutdoorTemperature = 35
	a := est.Analyze(room)
	require.Contains(t, a.Anomalies, "temperature outside comfort band: too_hot")

	room.OutdoorTemperature = 10
	a = est.Analyze(room)
	require.Contains(t, a.Anomalies, "temperature outside comfort band: too_cold")

	room.OutdoorTemperature = 25
	a = est.Analyze(room)
	require.Empty(t, a.Anomalies)

	// AC holds the room comfortable down to the cold bound.
	room.ACOn = true
	room.OutdoorTemperature = 17
	a = est.Analyze(room)
	require.Contains(t, a.Anomalies, "temperature outside comfort band: too_cold")
	room.OutdoorTemperature = 18
	a = est.Analyze(room)
	require.Empty(t, a.Anomalies)
}

func TestComfortBandIsConfigurable(t *testing.T) {
	th := config.DefaultThresholds()
	th.ComfortMaxC = 32
	est := NewLive(th)

	room := baseRoom()
	room.ACOn = false
	room.EquipmentRunning = []string{}
	room.OutdoorTemperature = 30
	a := est.Analyze(room)
	require.Empty(t, a.Anomalies)

	room.OutdoorTemperature = 33
	a = est.Analyze(room)
	require.Contains(t, a.Anomalies, "temperature outside comfort band: too_hot")
}

func TestAllAnomalyRulesFireTogether(t *testing.T) {
	est := NewLive(config.DefaultThresholds())

	room := baseRoom()
	room.CurrentOccupancy = 0
	room.ACOn = false
	room.OutdoorTemperature = 35
	a := est.Analyze(room)
	// Equipment-with-no-occupants and comfort both fire independently.
	require.Len(t, a.Anomalies, 2)
}

func TestSavingsPotentialBounds(t *testing.T) {
	est := NewLive(config.DefaultThresholds())

	// Worst case stays clamped at 100.
	room := baseRoom()
	room.RoomType = types.RoomCafeteria
	room.CurrentOccupancy = 1
	room.Capacity = 1
	room.ComputersCount = 20
	a := est.Analyze(room)
	require.Equal(t, 100.0, a.SavingsPotential)

	// Quiet room has nothing to save.
	room = baseRoom()
	room.CurrentOccupancy = 0
	room.EquipmentRunning = []string{}
	a = est.Analyze(room)
	require.Equal(t, 0.0, a.SavingsPotential)
}

func TestUnknownRoomTypeUsesDefaultLoad(t *testing.T) {
	est := NewLive(config.DefaultThresholds())

	room := baseRoom()
	room.RoomType = "auditorium"
	room.CurrentOccupancy = 0
	room.EquipmentRunning = []string{}
	// 3.0 * 0.3 = 0.9
	a := est.Analyze(room)
	require.InDelta(t, 0.9, a.EstimatedEnergyKW, 0.001)
}
