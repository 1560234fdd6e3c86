package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-ecoagent/detection"
	"go-ecoagent/handlers"
	"go-ecoagent/metrics"
	"go-ecoagent/processor"
	"go-ecoagent/simulation"
	"go-ecoagent/store"
)

// Deps are the shared services injected into the handlers.
type Deps struct {
	Store    *store.Store
	Pipeline *processor.Pipeline
	Engine   *simulation.Engine
	Adapter  *detection.Adapter
	Logger   *zap.Logger
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Campus resource analysis service"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	campus := r.Group("/api/campus")
	{
		campus.GET("/info", func(c *gin.Context) { handlers.GetCampusInfo(c, deps.Store) })
		campus.GET("/buildings/:building_id", func(c *gin.Context) { handlers.GetBuildingDetails(c, deps.Store) })
		campus.GET("/rooms/:room_id", func(c *gin.Context) { handlers.GetRoomDetails(c, deps.Store) })
		campus.POST("/upload-architecture", func(c *gin.Context) { handlers.UploadArchitecture(c, deps.Store) })
		campus.POST("/import", func(c *gin.Context) { handlers.ImportArchitecture(c, deps.Store) })
		campus.GET("/export", func(c *gin.Context) { handlers.ExportArchitecture(c, deps.Store) })
	}

	analysis := r.Group("/api/analysis")
	{
		analysis.GET("/current", func(c *gin.Context) { handlers.GetCurrentAnalysis(c, deps.Pipeline) })
		analysis.GET("/summary", func(c *gin.Context) { handlers.GetAnalysisSummary(c, deps.Pipeline) })
		analysis.GET("/building/:building_id", func(c *gin.Context) { handlers.GetBuildingAnalysis(c, deps.Pipeline) })
		analysis.GET("/room/:room_id", func(c *gin.Context) { handlers.GetRoomAnalysis(c, deps.Pipeline) })
		analysis.POST("/refresh", func(c *gin.Context) { handlers.RefreshAnalysis(c, deps.Pipeline, deps.Logger) })
	}

	r.POST("/api/detection/process-frame", func(c *gin.Context) { handlers.ProcessFrame(c, deps.Adapter, deps.Store) })

	sim := r.Group("/api/simulation")
	{
		sim.POST("/run", func(c *gin.Context) { handlers.RunSimulation(c, deps.Engine) })
		sim.GET("/templates", handlers.GetScenarioTemplates)
		sim.POST("/compare", func(c *gin.Context) { handlers.CompareScenarios(c, deps.Engine) })
	}

	return r
}
