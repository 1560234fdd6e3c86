package recommend

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-ecoagent/config"
	"go-ecoagent/metrics"
	"go-ecoagent/types"
)

// Entity kinds passed to the summarizer.
const (
	KindCampus   = "campus"
	KindBuilding = "building"
	KindRoom     = "room"
)

// Summarizer is the external reasoning capability: a structured metric
// summary in, recommendation strings out. Calls may fail or time out.
type Summarizer interface {
	Summarize(ctx context.Context, entityKind, entityID string, summary any) ([]string, error)
}

// Recommender walks the analysis tree in priority order and spends a
// bounded number of summarizer calls on it. Budget exhaustion is an
// expected terminal state: entities past the budget get empty lists.
type Recommender struct {
	summarizer Summarizer
	timeout    time.Duration
	workers    int
	th         config.Thresholds
	logger     *zap.Logger
}

func New(s Summarizer, timeout time.Duration, workers int, th config.Thresholds, logger *zap.Logger) *Recommender {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recommender{summarizer: s, timeout: timeout, workers: workers, th: th, logger: logger}
}

// target is one entity awaiting a recommendation attempt. assign runs
// exactly once per target, with the post-filtered strings or nil.
type target struct {
	kind    string
	id      string
	summary any
	assign  func([]string)
}

// Annotate fills recommendation lists across the analysis, highest
// priority first: campus, then critical buildings, then the remaining
// buildings, then rooms of critical buildings. It returns the number
// of external calls attempted. Failed calls consume budget too, so a
// flaky backend cannot stretch a run past its bound.
func (r *Recommender) Annotate(ctx context.Context, analysis *types.CampusAnalysis, budget types.BudgetLevel) int {
	if r.summarizer == nil {
		return 0
	}
	targets := r.buildTargets(analysis)

	tokens := budget.CallCount()
	attempted := 0

	// Tokens are claimed in the dispatch loop, one sequential counter in
	// priority order; only the calls themselves fan out. Claiming inside
	// the workers would let a lower-priority target race a higher one
	// for the last token.
	queue := make(chan target)
	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for tgt := range queue {
				tgt.assign(r.attempt(ctx, tgt))
			}
		}()
	}
	for _, tgt := range targets {
		if tokens <= 0 {
			tgt.assign([]string{})
			continue
		}
		tokens--
		attempted++
		queue <- tgt
	}
	close(queue)
	wg.Wait()

	if attempted < len(targets) {
		metrics.BudgetExhaustedRuns.Inc()
		r.logger.Info("recommendation budget exhausted",
			zap.String("budget_level", string(budget)),
			zap.Int("attempted", attempted),
			zap.Int("targets", len(targets)))
	}
	return attempted
}

// attempt issues one bounded call. Failures are logged and converted
// to an empty list; they never propagate to the pipeline.
func (r *Recommender) attempt(ctx context.Context, tgt target) []string {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	recs, err := r.summarizer.Summarize(callCtx, tgt.kind, tgt.id, tgt.summary)
	if err != nil {
		metrics.RecommenderCalls.WithLabelValues("failure").Inc()
		r.logger.Warn("recommendation call failed",
			zap.String("kind", tgt.kind),
			zap.String("entity", tgt.id),
			zap.Error(err))
		return []string{}
	}
	metrics.RecommenderCalls.WithLabelValues("success").Inc()
	return r.filter(recs)
}

var boilerplatePattern = regexp.MustCompile(`(?i)^\W*no (further )?action (is )?(needed|required)`)

// filter drops strings under the length floor and "no action needed"
// boilerplate, whatever the call outcome was.
func (r *Recommender) filter(recs []string) []string {
	out := []string{}
	for _, rec := range recs {
		rec = strings.TrimSpace(rec)
		if len(rec) < r.th.MinRecommendationLen {
			continue
		}
		if boilerplatePattern.MatchString(rec) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func (r *Recommender) buildTargets(analysis *types.CampusAnalysis) []target {
	targets := []target{{
		kind:    KindCampus,
		id:      analysis.CampusName,
		summary: campusSummary(analysis),
		assign:  func(recs []string) { analysis.CampusRecommendations = recs },
	}}

	critical := map[string]bool{}
	for _, cb := range analysis.CriticalBuildings {
		critical[cb.BuildingID] = true
	}

	criticalBuildings := []*types.BuildingAnalysis{}
	otherBuildings := []*types.BuildingAnalysis{}
	for _, b := range analysis.BuildingStates {
		if critical[b.BuildingID] {
			criticalBuildings = append(criticalBuildings, b)
		} else {
			otherBuildings = append(otherBuildings, b)
		}
	}
	byEnergyDesc := func(list []*types.BuildingAnalysis) {
		sort.Slice(list, func(i, j int) bool {
			if list[i].TotalEnergyKW != list[j].TotalEnergyKW {
				return list[i].TotalEnergyKW > list[j].TotalEnergyKW
			}
			return list[i].BuildingID < list[j].BuildingID
		})
	}
	byEnergyDesc(criticalBuildings)
	byEnergyDesc(otherBuildings)

	for _, b := range append(criticalBuildings, otherBuildings...) {
		b := b
		targets = append(targets, target{
			kind:    KindBuilding,
			id:      b.BuildingID,
			summary: buildingSummary(b),
			assign:  func(recs []string) { b.Recommendations = recs },
		})
	}

	// Rooms only matter once their building is already flagged.
	for _, b := range criticalBuildings {
		rooms := make([]*types.RoomAnalysis, 0, len(b.RoomStates))
		for _, room := range b.RoomStates {
			rooms = append(rooms, room)
		}
		sort.Slice(rooms, func(i, j int) bool {
			if rooms[i].EstimatedEnergyKW != rooms[j].EstimatedEnergyKW {
				return rooms[i].EstimatedEnergyKW > rooms[j].EstimatedEnergyKW
			}
			return rooms[i].RoomID < rooms[j].RoomID
		})
		for _, room := range rooms {
			room := room
			targets = append(targets, target{
				kind:    KindRoom,
				id:      room.RoomID,
				summary: room,
				assign:  func(recs []string) { room.Recommendations = recs },
			})
		}
	}
	return targets
}

// campusSummary strips the building tree down to what the prompt needs.
func campusSummary(analysis *types.CampusAnalysis) map[string]any {
	return map[string]any{
		"campus_name":        analysis.CampusName,
		"metrics":            analysis.Metrics,
		"critical_buildings": analysis.CriticalBuildings,
		"savings_potential":  analysis.SavingsPotential,
	}
}

func buildingSummary(b *types.BuildingAnalysis) map[string]any {
	anomalies := 0
	for _, room := range b.RoomStates {
		anomalies += len(room.Anomalies)
	}
	return map[string]any{
		"building_id":       b.BuildingID,
		"total_rooms":       b.TotalRooms,
		"total_energy_kw":   b.TotalEnergyKW,
		"total_water_lph":   b.TotalWaterLPH,
		"occupancy_rate":    b.OccupancyRate,
		"critical":          b.Critical,
		"room_anomalies":    anomalies,
		"savings_potential": b.SavingsPotential,
	}
}
