package processor

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-ecoagent/aggregate"
	"go-ecoagent/config"
	"go-ecoagent/estimator"
	"go-ecoagent/metrics"
	"go-ecoagent/recommend"
	"go-ecoagent/store"
	"go-ecoagent/types"
)

// Options select what one analysis run covers. Zero NumRooms or
// NumBuildings means no limit.
type Options struct {
	NumRooms            int
	NumBuildings        int
	Budget              types.BudgetLevel
	Env                 *types.EnvParams
	SkipRecommendations bool
}

// Pipeline runs the full estimate→aggregate→recommend flow over a
// snapshot of the room store. Each run is a short-lived, stateless
// computation; the only state kept here is the cached latest result.
type Pipeline struct {
	store       *store.Store
	estimator   estimator.Estimator
	recommender *recommend.Recommender
	cfg         *config.Config
	logger      *zap.Logger

	mu     sync.RWMutex
	latest *types.CampusAnalysis
}

func NewPipeline(st *store.Store, est estimator.Estimator, rec *recommend.Recommender, cfg *config.Config, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{store: st, estimator: est, recommender: rec, cfg: cfg, logger: logger}
}

// Run analyzes the current store snapshot and caches the result.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*types.CampusAnalysis, error) {
	analysis, err := p.AnalyzeRooms(ctx, p.store.Snapshot(), opts)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.latest = analysis
	p.mu.Unlock()
	return analysis, nil
}

// AnalyzeRooms runs the pipeline over an explicit room set. Simulation
// uses this with a transient copy so the store is never mutated.
func (p *Pipeline) AnalyzeRooms(ctx context.Context, rooms map[string]types.RoomState, opts Options) (*types.CampusAnalysis, error) {
	if err := validateOptions(&opts); err != nil {
		return nil, err
	}
	started := time.Now()

	if opts.Env != nil {
		p.applyEnvironment(rooms, opts.Env)
	}
	rooms = limitScope(rooms, opts.NumBuildings, opts.NumRooms)

	buildingNames := map[string]string{}
	for id, b := range p.store.Buildings() {
		buildingNames[id] = b.Name
	}

	// Group, estimate, roll up. Iteration over sorted ids keeps logs
	// and truncation stable; the rollup itself is order-invariant.
	byBuilding := map[string][]*types.RoomAnalysis{}
	for _, id := range sortedRoomIDs(rooms) {
		state := rooms[id]
		analysis := p.estimator.Analyze(state)
		byBuilding[state.BuildingID] = append(byBuilding[state.BuildingID], &analysis)
	}

	buildings := make(map[string]*types.BuildingAnalysis, len(byBuilding))
	for buildingID, roomAnalyses := range byBuilding {
		buildings[buildingID] = aggregate.BuildingRollup(buildingID, buildingNames[buildingID], roomAnalyses, p.cfg.Thresholds)
	}
	analysis := aggregate.CampusRollup(p.store.CampusInfo().Name, buildings, p.cfg.Thresholds)

	calls := 0
	if !opts.SkipRecommendations && p.recommender != nil {
		calls = p.recommender.Annotate(ctx, analysis, opts.Budget)
	}

	analysis.ExecutionInfo = &types.ExecutionInfo{
		RoomsAnalyzed:       len(rooms),
		BuildingsAnalyzed:   len(buildings),
		BudgetLevel:         string(opts.Budget),
		RecommendationCalls: calls,
		EnvironmentalParams: opts.Env,
	}

	metrics.AnalysisRuns.Inc()
	metrics.AnalysisDuration.Observe(time.Since(started).Seconds())
	p.logger.Info("analysis complete",
		zap.String("analysis_id", analysis.AnalysisID),
		zap.Int("rooms", len(rooms)),
		zap.Int("buildings", len(buildings)),
		zap.Int("recommendation_calls", calls),
		zap.Duration("took", time.Since(started)))
	return analysis, nil
}

// Latest returns the cached analysis, or nil before the first run.
func (p *Pipeline) Latest() *types.CampusAnalysis {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// BuildingLatest drills into the cached analysis.
func (p *Pipeline) BuildingLatest(buildingID string) *types.BuildingAnalysis {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.latest == nil {
		return nil
	}
	return p.latest.BuildingStates[buildingID]
}

// RoomLatest searches the cached analysis for one room.
func (p *Pipeline) RoomLatest(roomID string) *types.RoomAnalysis {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.latest == nil {
		return nil
	}
	for _, b := range p.latest.BuildingStates {
		if room, ok := b.RoomStates[roomID]; ok {
			return room
		}
	}
	return nil
}

// validateOptions also normalizes the budget so the run and its
// execution info report the resolved level, not the raw input.
func validateOptions(opts *Options) error {
	budget, err := types.ParseBudgetLevel(string(opts.Budget))
	if err != nil {
		return err
	}
	opts.Budget = budget
	if opts.NumRooms < 0 {
		return &types.InvalidConfigError{Field: "num_rooms", Reason: "must not be negative"}
	}
	if opts.NumBuildings < 0 {
		return &types.InvalidConfigError{Field: "num_buildings", Reason: "must not be negative"}
	}
	return validateEnv(opts.Env)
}

func validateEnv(env *types.EnvParams) error {
	if env == nil {
		return nil
	}
	if env.AvgOccupancy != nil && *env.AvgOccupancy < 0 {
		return &types.InvalidConfigError{Field: "avg_occupancy", Reason: "must not be negative"}
	}
	if env.ComputersCount != nil && *env.ComputersCount < 0 {
		return &types.InvalidConfigError{Field: "computers_count", Reason: "must not be negative"}
	}
	if env.ACTemperature != nil && (*env.ACTemperature < 16 || *env.ACTemperature > 30) {
		return &types.InvalidConfigError{Field: "ac_temperature", Reason: "must be between 16 and 30"}
	}
	if env.TimeOfDay != nil {
		switch *env.TimeOfDay {
		case types.TimeMorning, types.TimeAfternoon, types.TimeEvening, types.TimeNight:
		default:
			return &types.InvalidConfigError{Field: "time_of_day", Reason: fmt.Sprintf("unknown value %q", *env.TimeOfDay)}
		}
	}
	return nil
}

// applyEnvironment overlays request-level overrides on the snapshot.
// Occupancy detected by a camera is kept over an avg_occupancy
// override. The occupancy variation term only exists in demo mode and
// is seeded, so a given seed always produces the same spread.
func (p *Pipeline) applyEnvironment(rooms map[string]types.RoomState, env *types.EnvParams) {
	var rng *rand.Rand
	if p.cfg.EstimatorMode == config.EstimatorDemo {
		rng = rand.New(rand.NewSource(p.cfg.DemoSeed))
	}

	for _, id := range sortedRoomIDs(rooms) {
		room := rooms[id]

		if env.AvgOccupancy != nil && room.DetectionMethod != types.DetectionMethodCamera {
			occ := *env.AvgOccupancy
			if rng != nil {
				occ += rng.Intn(11) - 5
			}
			if occ < 0 {
				occ = 0
			}
			if occ > room.Capacity {
				occ = room.Capacity
			}
			room.CurrentOccupancy = occ
		}
		if env.LightsOn != nil {
			room.LightsOn = *env.LightsOn
		}
		if env.ACOn != nil {
			room.ACOn = *env.ACOn
		}
		if env.ACTemperature != nil {
			room.ACTemperature = *env.ACTemperature
		}
		if env.FansOn != nil {
			room.FansOn = *env.FansOn
		}
		if env.ComputersCount != nil {
			room.ComputersCount = *env.ComputersCount
		}
		if env.TimeOfDay != nil {
			room.TimeOfDay = *env.TimeOfDay
		}
		if env.OutdoorTemperature != nil {
			room.OutdoorTemperature = *env.OutdoorTemperature
		}
		room.EquipmentRunning = rebuildEquipment(room)
		rooms[id] = room
	}
}

// rebuildEquipment recomputes the equipment list after flag overrides.
func rebuildEquipment(room types.RoomState) []string {
	equipment := []string{}
	if room.LightsOn {
		equipment = append(equipment, "lights")
	}
	if room.ACOn {
		equipment = append(equipment, fmt.Sprintf("ac_%dC", room.ACTemperature))
	}
	if room.FansOn {
		equipment = append(equipment, "fans")
	}
	for i := 0; i < room.ComputersCount; i++ {
		equipment = append(equipment, fmt.Sprintf("computer_%d", i+1))
	}
	return equipment
}

// limitScope truncates the snapshot to the first N buildings and M
// rooms in sorted order, matching the request's scope caps.
func limitScope(rooms map[string]types.RoomState, numBuildings, numRooms int) map[string]types.RoomState {
	if numBuildings <= 0 && numRooms <= 0 {
		return rooms
	}

	keepBuilding := map[string]bool{}
	if numBuildings > 0 {
		ids := map[string]bool{}
		for _, r := range rooms {
			ids[r.BuildingID] = true
		}
		sorted := make([]string, 0, len(ids))
		for id := range ids {
			sorted = append(sorted, id)
		}
		sort.Strings(sorted)
		if len(sorted) > numBuildings {
			sorted = sorted[:numBuildings]
		}
		for _, id := range sorted {
			keepBuilding[id] = true
		}
	}

	out := make(map[string]types.RoomState)
	kept := 0
	for _, id := range sortedRoomIDs(rooms) {
		room := rooms[id]
		if numBuildings > 0 && !keepBuilding[room.BuildingID] {
			continue
		}
		if numRooms > 0 && kept >= numRooms {
			break
		}
		out[id] = room
		kept++
	}
	return out
}

func sortedRoomIDs(rooms map[string]types.RoomState) []string {
	ids := make([]string, 0, len(rooms))
	for id := range rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
