package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-ecoagent/processor"
	"go-ecoagent/simulation"
	"go-ecoagent/types"
)

// RunSimulation executes one what-if scenario. Scope and budget caps
// ride inside scenario.parameters, matching the dashboard's payload.
func RunSimulation(c *gin.Context, engine *simulation.Engine) {
	var scenario types.Scenario
	if err := c.ShouldBindJSON(&scenario); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts, err := optionsFromParameters(scenario.Parameters)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := engine.Run(c.Request.Context(), scenario, opts)
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

// GetScenarioTemplates lists the predefined scenarios.
func GetScenarioTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, simulation.Templates())
}

// CompareScenarios runs several scenarios and returns them ranked by
// energy savings.
func CompareScenarios(c *gin.Context, engine *simulation.Engine) {
	var scenarios []types.Scenario
	if err := c.ShouldBindJSON(&scenarios); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(scenarios) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one scenario is required"})
		return
	}

	// Comparisons skip recommendations: the ranking only needs metrics
	// and a compare should not burn the call budget per scenario.
	opts := processor.Options{Budget: types.BudgetMedium, SkipRecommendations: true}
	ranked, err := engine.Compare(c.Request.Context(), scenarios, opts)
	if err != nil {
		status := http.StatusInternalServerError
		if types.IsInvalidConfig(err) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	response := gin.H{
		"scenarios_compared": len(scenarios),
		"results":            ranked,
	}
	if len(ranked) > 0 {
		response["recommended"] = ranked[0]
	}
	c.JSON(http.StatusOK, response)
}

func optionsFromParameters(params map[string]any) (processor.Options, error) {
	opts := processor.Options{Budget: types.BudgetMedium}
	if params == nil {
		return opts, nil
	}

	if v, ok := params["num_rooms"]; ok {
		if f, ok := v.(float64); ok {
			opts.NumRooms = int(f)
		}
	}
	if v, ok := params["num_buildings"]; ok {
		if f, ok := v.(float64); ok {
			opts.NumBuildings = int(f)
		}
	}
	if v, ok := params["budget_level"]; ok {
		s, _ := v.(string)
		budget, err := types.ParseBudgetLevel(s)
		if err != nil {
			return opts, err
		}
		opts.Budget = budget
	}
	return opts, nil
}
