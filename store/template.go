package store

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"go-ecoagent/types"
)

type buildingSpec struct {
	id        string
	name      string
	floors    int
	roomTypes []string
}

var campusTemplate = []buildingSpec{
	{"lib", "University Library", 4, []string{types.RoomLibrary}},
	{"sci", "Science Hall", 3, []string{types.RoomLab, types.RoomClassroom}},
	{"eng", "Engineering Building", 4, []string{types.RoomLab, types.RoomClassroom}},
	{"dorm", "Student Residence A", 5, []string{types.RoomDorm}},
	{"cafe", "Student Center", 2, []string{types.RoomCafeteria, types.RoomClassroom}},
}

// LoadTemplate populates the store with the built-in campus layout and
// seeds occupancy for each room. The rng drives capacities and initial
// occupancy so the same seed always yields the same campus.
func (s *Store) LoadTemplate(rng *rand.Rand) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.campusInfo = types.CampusInfo{
		Name:         "State University Campus",
		Location:     "Main Campus",
		TotalAreaSqm: 50000,
	}
	s.buildings = make(map[string]types.Building)
	s.rooms = make(map[string]*types.RoomState)

	for _, spec := range campusTemplate {
		s.buildings[spec.id] = types.Building{
			Name:   spec.name,
			Floors: spec.floors,
			Type:   spec.roomTypes[0],
		}
		roomsPerFloor := 8
		if spec.roomTypes[0] == types.RoomDorm {
			roomsPerFloor = 12
		}
		for floor := 1; floor <= spec.floors; floor++ {
			for n := 1; n <= roomsPerFloor; n++ {
				roomID := fmt.Sprintf("%s-%d%02d", spec.id, floor, n)
				roomType := spec.roomTypes[rng.Intn(len(spec.roomTypes))]
				room := defaultRoom(roomID)
				room.BuildingID = spec.id
				room.Floor = floor
				room.RoomType = roomType
				room.Capacity = templateCapacity(roomType, rng)
				room.CurrentOccupancy = seedOccupancy(roomType, room.Capacity, rng)
				room.LightsOn = room.CurrentOccupancy > 0
				room.ACOn = room.CurrentOccupancy > 0
				room.EquipmentRunning = seedEquipment(roomType, room.CurrentOccupancy, rng)
				s.rooms[roomID] = room
			}
		}
	}

	s.logger.Info("campus template loaded",
		zap.Int("buildings", len(s.buildings)),
		zap.Int("rooms", len(s.rooms)))
}

func templateCapacity(roomType string, rng *rand.Rand) int {
	switch roomType {
	case types.RoomClassroom:
		return 30 + rng.Intn(31)
	case types.RoomLab:
		return 20 + rng.Intn(21)
	case types.RoomLibrary:
		return 50 + rng.Intn(51)
	case types.RoomDorm:
		return 2
	case types.RoomCafeteria:
		return 100 + rng.Intn(101)
	case types.RoomBathroom:
		return 10
	default:
		return DefaultCapacity
	}
}

func seedOccupancy(roomType string, capacity int, rng *rand.Rand) int {
	var occ int
	switch roomType {
	case types.RoomClassroom:
		occ = 20 + rng.Intn(31)
	case types.RoomLab:
		occ = 10 + rng.Intn(21)
	case types.RoomLibrary:
		occ = 10 + rng.Intn(41)
	case types.RoomDorm:
		occ = rng.Intn(3)
	case types.RoomCafeteria:
		occ = 5 + rng.Intn(46)
	default:
		occ = rng.Intn(capacity + 1)
	}
	if occ > capacity {
		occ = capacity
	}
	return occ
}

func seedEquipment(roomType string, occupancy int, rng *rand.Rand) []string {
	equipment := []string{}
	switch roomType {
	case types.RoomClassroom:
		if occupancy > 0 {
			equipment = append(equipment, "lights")
			if rng.Float64() > 0.3 {
				equipment = append(equipment, "projector")
			}
			if rng.Float64() > 0.5 {
				equipment = append(equipment, "computers")
			}
		}
	case types.RoomLab:
		equipment = append(equipment, "lights", "computers", "lab_equipment")
	case types.RoomLibrary:
		equipment = append(equipment, "lights")
		if occupancy > 20 {
			equipment = append(equipment, "computers")
		}
	case types.RoomCafeteria:
		equipment = append(equipment, "lights", "kitchen_equipment")
	}
	return equipment
}

// RegenerateObservations drifts every room's occupancy, simulating the
// passage of a capture interval in demo mode. Detection-sourced rooms
// are left alone so fresh camera counts survive the drift.
func (s *Store) RegenerateObservations(rng *rand.Rand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, room := range s.rooms {
		if room.DetectionMethod == types.DetectionMethodCamera {
			continue
		}
		delta := rng.Intn(11) - 5
		occ := room.CurrentOccupancy + delta
		if occ < 0 {
			occ = 0
		}
		if occ > room.Capacity {
			occ = room.Capacity
		}
		room.CurrentOccupancy = occ
	}
	s.logger.Debug("observations regenerated", zap.Int("rooms", len(s.rooms)))
}
