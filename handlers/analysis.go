package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-ecoagent/processor"
	"go-ecoagent/types"
)

// GetCurrentAnalysis runs the full pipeline for the current snapshot.
func GetCurrentAnalysis(c *gin.Context, pipeline *processor.Pipeline) {
	opts, err := parseAnalysisOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := pipeline.Run(c.Request.Context(), opts)
	if err != nil {
		status := http.StatusInternalServerError
		if types.IsInvalidConfig(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetAnalysisSummary serves a digest of the cached analysis. Fast path
// for dashboard polling.
func GetAnalysisSummary(c *gin.Context, pipeline *processor.Pipeline) {
	latest := pipeline.Latest()
	if latest == nil {
		c.JSON(http.StatusOK, gin.H{"status": "no_analysis_available", "message": "Run /current first"})
		return
	}

	top := latest.CampusRecommendations
	if len(top) > 3 {
		top = top[:3]
	}
	c.JSON(http.StatusOK, gin.H{
		"campus_name":         latest.CampusName,
		"timestamp":           latest.Timestamp,
		"campus_metrics":      latest.Metrics,
		"savings_potential":   latest.SavingsPotential,
		"critical_buildings":  latest.CriticalBuildings,
		"top_recommendations": top,
	})
}

// GetBuildingAnalysis drills into the cached analysis.
func GetBuildingAnalysis(c *gin.Context, pipeline *processor.Pipeline) {
	building := pipeline.BuildingLatest(c.Param("building_id"))
	if building == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "building not found in latest analysis"})
		return
	}
	c.JSON(http.StatusOK, building)
}

// GetRoomAnalysis drills into the cached analysis for one room.
func GetRoomAnalysis(c *gin.Context, pipeline *processor.Pipeline) {
	room := pipeline.RoomLatest(c.Param("room_id"))
	if room == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found in latest analysis"})
		return
	}
	c.JSON(http.StatusOK, room)
}

// RefreshAnalysis kicks off a background run and returns immediately.
func RefreshAnalysis(c *gin.Context, pipeline *processor.Pipeline, logger *zap.Logger) {
	go func() {
		// Detached from the request: navigating away must not cancel
		// the refresh.
		if _, err := pipeline.Run(context.Background(), processor.Options{Budget: types.BudgetMedium}); err != nil {
			logger.Warn("background analysis failed", zap.Error(err))
		}
	}()
	c.JSON(http.StatusAccepted, gin.H{"status": "analysis_scheduled", "message": "Analysis running in background"})
}

func parseAnalysisOptions(c *gin.Context) (processor.Options, error) {
	opts := processor.Options{}

	var err error
	if opts.NumRooms, err = intQuery(c, "num_rooms"); err != nil {
		return opts, err
	}
	if opts.NumBuildings, err = intQuery(c, "num_buildings"); err != nil {
		return opts, err
	}
	if opts.Budget, err = types.ParseBudgetLevel(c.Query("budget_level")); err != nil {
		return opts, err
	}

	env, err := parseEnvParams(c)
	if err != nil {
		return opts, err
	}
	opts.Env = env
	return opts, nil
}

// parseEnvParams collects the optional environmental overrides. Absent
// params stay nil so the stored state shows through.
func parseEnvParams(c *gin.Context) (*types.EnvParams, error) {
	env := &types.EnvParams{}
	present := false

	setInt := func(key string, dst **int) error {
		raw := c.Query(key)
		if raw == "" {
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return &types.InvalidConfigError{Field: key, Reason: "not an integer"}
		}
		*dst = &n
		present = true
		return nil
	}
	setBool := func(key string, dst **bool) error {
		raw := c.Query(key)
		if raw == "" {
			return nil
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return &types.InvalidConfigError{Field: key, Reason: "not a boolean"}
		}
		*dst = &b
		present = true
		return nil
	}

	if err := setInt("avg_occupancy", &env.AvgOccupancy); err != nil {
		return nil, err
	}
	if err := setBool("lights_on", &env.LightsOn); err != nil {
		return nil, err
	}
	if err := setBool("ac_on", &env.ACOn); err != nil {
		return nil, err
	}
	if err := setInt("ac_temperature", &env.ACTemperature); err != nil {
		return nil, err
	}
	if err := setBool("fans_on", &env.FansOn); err != nil {
		return nil, err
	}
	if err := setInt("computers_count", &env.ComputersCount); err != nil {
		return nil, err
	}
	if err := setInt("outdoor_temperature", &env.OutdoorTemperature); err != nil {
		return nil, err
	}
	if raw := c.Query("time_of_day"); raw != "" {
		env.TimeOfDay = &raw
		present = true
	}

	if !present {
		return nil, nil
	}
	return env, nil
}

func intQuery(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &types.InvalidConfigError{Field: key, Reason: "not an integer"}
	}
	return n, nil
}
