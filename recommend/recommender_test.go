package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-ecoagent/config"
	"go-ecoagent/types"
)

// fakeSummarizer records the entities it was called for, in order.
type fakeSummarizer struct {
	mu      sync.Mutex
	calls   []string
	respond func(entityKind, entityID string) ([]string, error)
}

func (f *fakeSummarizer) Summarize(_ context.Context, entityKind, entityID string, _ any) ([]string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, entityKind+":"+entityID)
	f.mu.Unlock()
	if f.respond != nil {
		return f.respond(entityKind, entityID)
	}
	return []string{"Reduce HVAC usage during off-peak hours"}, nil
}

func testAnalysis() *types.CampusAnalysis {
	rooms := func(ids ...string) map[string]*types.RoomAnalysis {
		out := map[string]*types.RoomAnalysis{}
		for i, id := range ids {
			out[id] = &types.RoomAnalysis{RoomID: id, EstimatedEnergyKW: float64(10 - i)}
		}
		return out
	}
	return &types.CampusAnalysis{
		CampusName: "Campus",
		BuildingStates: map[string]*types.BuildingAnalysis{
			"sci":  {BuildingID: "sci", TotalEnergyKW: 80, Critical: true, RoomStates: rooms("sci-101", "sci-102")},
			"eng":  {BuildingID: "eng", TotalEnergyKW: 60, RoomStates: rooms("eng-201")},
			"lib":  {BuildingID: "lib", TotalEnergyKW: 40, RoomStates: rooms("lib-301")},
			"dorm": {BuildingID: "dorm", TotalEnergyKW: 20, RoomStates: rooms("dorm-101")},
		},
		CriticalBuildings: []types.CriticalBuilding{{BuildingID: "sci", EnergyKW: 80}},
	}
}

func newTestRecommender(s Summarizer, workers int) *Recommender {
	return New(s, time.Second, workers, config.DefaultThresholds(), nil)
}

func TestAnnotatePriorityOrder(t *testing.T) {
	fake := &fakeSummarizer{}
	r := newTestRecommender(fake, 1)

	attempted := r.Annotate(context.Background(), testAnalysis(), types.BudgetHigh)
	require.Equal(t, 7, attempted)
	// Campus first, then the critical building, then the rest by energy
	// descending, then rooms of the critical building.
	require.Equal(t, []string{
		"campus:Campus",
		"building:sci",
		"building:eng",
		"building:lib",
		"building:dorm",
		"room:sci-101",
		"room:sci-102",
	}, fake.calls)
}

func TestAnnotateLowBudgetStopsAtThreeCalls(t *testing.T) {
	fake := &fakeSummarizer{}
	r := newTestRecommender(fake, 1)
	analysis := testAnalysis()

	attempted := r.Annotate(context.Background(), analysis, types.BudgetLow)
	require.Equal(t, 3, attempted)
	require.Equal(t, []string{"campus:Campus", "building:sci", "building:eng"}, fake.calls)

	// Entities past the budget still end up with empty, non-nil lists.
	require.NotEmpty(t, analysis.CampusRecommendations)
	require.NotEmpty(t, analysis.BuildingStates["sci"].Recommendations)
	require.NotNil(t, analysis.BuildingStates["lib"].Recommendations)
	require.Empty(t, analysis.BuildingStates["lib"].Recommendations)
	require.Empty(t, analysis.BuildingStates["sci"].RoomStates["sci-101"].Recommendations)
}

func TestAnnotateBudgetCapsConcurrentWorkers(t *testing.T) {
	// The exhausted-budget boundary must always land on the same
	// highest-priority entities, whatever the worker scheduling does.
	for i := 0; i < 200; i++ {
		fake := &fakeSummarizer{}
		r := newTestRecommender(fake, 4)

		attempted := r.Annotate(context.Background(), testAnalysis(), types.BudgetLow)
		require.Equal(t, 3, attempted)
		require.ElementsMatch(t, []string{"campus:Campus", "building:sci", "building:eng"}, fake.calls)
	}
}

func TestAnnotateFailedCallConsumesBudget(t *testing.T) {
	fake := &fakeSummarizer{
		respond: func(_, _ string) ([]string, error) {
			return nil, errors.New("backend unavailable")
		},
	}
	r := newTestRecommender(fake, 1)
	analysis := testAnalysis()

	attempted := r.Annotate(context.Background(), analysis, types.BudgetLow)
	require.Equal(t, 3, attempted)
	require.Len(t, fake.calls, 3)
	require.Empty(t, analysis.CampusRecommendations)
	require.NotNil(t, analysis.CampusRecommendations)
}

func TestAnnotateNilSummarizer(t *testing.T) {
	r := newTestRecommender(nil, 1)
	require.Equal(t, 0, r.Annotate(context.Background(), testAnalysis(), types.BudgetHigh))
}

func TestFilterDropsBoilerplate(t *testing.T) {
	r := newTestRecommender(&fakeSummarizer{}, 1)

	out := r.filter([]string{
		"Turn off lab equipment overnight",
		"ok",
		"No action needed.",
		"  no further action is required at this time  ",
		"Consolidate evening classes into fewer buildings",
	})
	require.Equal(t, []string{
		"Turn off lab equipment overnight",
		"Consolidate evening classes into fewer buildings",
	}, out)
}
