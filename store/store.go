package store

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-ecoagent/types"
)

// DefaultCapacity is assumed for rooms created on first reference.
const DefaultCapacity = 30

// Store holds the last-known state per room plus the campus structure.
// It is the only process-wide mutable state; analysis runs work on
// snapshots. Writes are last-write-wins per room, no merging.
type Store struct {
	mu         sync.RWMutex
	campusInfo types.CampusInfo
	buildings  map[string]types.Building
	rooms      map[string]*types.RoomState
	logger     *zap.Logger
}

// New returns an empty store. Call LoadTemplate or SetStructure to
// populate it; rooms referenced before that are lazily created.
func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		campusInfo: types.CampusInfo{Name: "Campus"},
		buildings:  make(map[string]types.Building),
		rooms:      make(map[string]*types.RoomState),
		logger:     logger,
	}
}

// Get returns the state for roomID, creating a default room (capacity
// 30, empty, all equipment off) if it has never been seen.
func (s *Store) Get(roomID string) types.RoomState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.getLocked(roomID)
}

func (s *Store) getLocked(roomID string) *types.RoomState {
	if room, ok := s.rooms[roomID]; ok {
		return room
	}
	room := defaultRoom(roomID)
	s.rooms[roomID] = room
	s.logger.Info("room created on first reference",
		zap.String("room_id", roomID),
		zap.String("building_id", room.BuildingID))
	return room
}

func defaultRoom(roomID string) *types.RoomState {
	buildingID := roomID
	if i := strings.Index(roomID, "-"); i > 0 {
		buildingID = roomID[:i]
	}
	return &types.RoomState{
		RoomID:             roomID,
		BuildingID:         buildingID,
		RoomType:           types.RoomClassroom,
		Capacity:           DefaultCapacity,
		EquipmentRunning:   []string{},
		ACTemperature:      22,
		OutdoorTemperature: 30,
		TimeOfDay:          types.TimeAfternoon,
	}
}

// UpdateOccupancy sets a room's occupancy from a detection result and
// returns the previous count. Negative counts clamp to zero. Calling
// it twice with the same count is a no-op beyond the timestamp.
func (s *Store) UpdateOccupancy(roomID string, count int) int {
	if count < 0 {
		count = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.getLocked(roomID)
	previous := room.CurrentOccupancy
	room.CurrentOccupancy = count
	room.DetectionMethod = types.DetectionMethodCamera
	room.LastDetectionTime = time.Now().UTC().Format(time.RFC3339)

	s.logger.Info("occupancy updated",
		zap.String("room_id", roomID),
		zap.Int("previous", previous),
		zap.Int("current", count))
	return previous
}

// UpdateRoom replaces a room's state wholesale (configuration edit).
// Last write wins against concurrent detection updates.
func (s *Store) UpdateRoom(state types.RoomState) error {
	if state.RoomID == "" {
		return &types.InvalidConfigError{Field: "room_id", Reason: "must not be empty"}
	}
	if state.Capacity <= 0 {
		return &types.InvalidConfigError{Field: "capacity", Reason: "must be a positive integer"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := state
	s.rooms[state.RoomID] = &copied
	return nil
}

// Snapshot copies all room states for one analysis run. The caller
// owns the copy; mutating it never touches the store.
func (s *Store) Snapshot() map[string]types.RoomState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]types.RoomState, len(s.rooms))
	for id, room := range s.rooms {
		copied := *room
		copied.EquipmentRunning = append([]string(nil), room.EquipmentRunning...)
		out[id] = copied
	}
	return out
}

// HasRoom reports whether roomID exists without creating it.
func (s *Store) HasRoom(roomID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[roomID]
	return ok
}

// CampusInfo returns the campus metadata.
func (s *Store) CampusInfo() types.CampusInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.campusInfo
}

// Buildings returns a copy of the building map.
func (s *Store) Buildings() map[string]types.Building {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]types.Building, len(s.buildings))
	for id, b := range s.buildings {
		out[id] = b
	}
	return out
}

// RoomIDs returns all room ids, sorted.
func (s *Store) RoomIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Structure exports the current campus layout.
func (s *Store) Structure() types.CampusStructure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cs := types.CampusStructure{
		CampusInfo: s.campusInfo,
		Buildings:  make(map[string]types.Building, len(s.buildings)),
		Rooms:      make(map[string]types.RoomTemplate, len(s.rooms)),
	}
	for id, b := range s.buildings {
		cs.Buildings[id] = b
	}
	for id, r := range s.rooms {
		cs.Rooms[id] = types.RoomTemplate{
			BuildingID: r.BuildingID,
			Floor:      r.Floor,
			Type:       r.RoomType,
			Capacity:   r.Capacity,
			AreaSqm:    r.Capacity * 2,
		}
	}
	return cs
}

// SetStructure replaces the campus layout from an import. The whole
// structure is validated before anything is applied; a bad entry
// rejects the import and leaves the store untouched.
func (s *Store) SetStructure(cs types.CampusStructure) error {
	if len(cs.Buildings) == 0 {
		return &types.InvalidConfigError{Field: "buildings", Reason: "at least one building is required"}
	}
	rooms := make(map[string]*types.RoomState, len(cs.Rooms))
	for id, tpl := range cs.Rooms {
		if id == "" {
			return &types.InvalidConfigError{Field: "rooms", Reason: "room id must not be empty"}
		}
		if tpl.Capacity <= 0 {
			return &types.InvalidConfigError{Field: "rooms." + id + ".capacity", Reason: "must be a positive integer"}
		}
		if _, ok := cs.Buildings[tpl.BuildingID]; !ok {
			return &types.InvalidConfigError{Field: "rooms." + id + ".building_id", Reason: "unknown building " + tpl.BuildingID}
		}
		room := defaultRoom(id)
		room.BuildingID = tpl.BuildingID
		room.Floor = tpl.Floor
		if tpl.Type != "" {
			room.RoomType = tpl.Type
		}
		room.Capacity = tpl.Capacity
		rooms[id] = room
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cs.CampusInfo.Name != "" {
		s.campusInfo = cs.CampusInfo
	}
	s.buildings = make(map[string]types.Building, len(cs.Buildings))
	for id, b := range cs.Buildings {
		s.buildings[id] = b
	}
	s.rooms = rooms
	s.logger.Info("campus structure replaced",
		zap.Int("buildings", len(cs.Buildings)),
		zap.Int("rooms", len(rooms)))
	return nil
}
