package cronjobs

import (
	"context"
	"math/rand"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"go-ecoagent/config"
	"go-ecoagent/processor"
	"go-ecoagent/store"
	"go-ecoagent/types"
)

// InitCronJobs schedules the periodic background work: a recurring
// analysis refresh so /api/analysis/summary always has a recent result,
// and, in demo mode, a drift pass over the generated observations so
// the dashboard does not show a frozen campus. The refresh skips
// recommendations to keep external calls out of the background path.
func InitCronJobs(cfg *config.Config, pipeline *processor.Pipeline, st *store.Store, logger *zap.Logger) *cron.Cron {
	logger.Info("starting cron jobs", zap.String("refresh_spec", cfg.RefreshSpec))
	// A slow tick must not overlap the next one: the drift job shares
	// its rng across invocations, and a second concurrent refresh only
	// wastes work.
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	_, err := c.AddFunc(cfg.RefreshSpec, func() {
		logger.Info("cron: analysis refresh running")
		_, err := pipeline.Run(context.Background(), processor.Options{
			Budget:              types.BudgetMedium,
			SkipRecommendations: true,
		})
		if err != nil {
			logger.Error("cron: analysis refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		logger.Error("cron: scheduling analysis refresh failed", zap.Error(err))
	}

	if cfg.EstimatorMode == config.EstimatorDemo {
		rng := rand.New(rand.NewSource(cfg.DemoSeed))

		// Offset from the refresh so a drift lands before each run.
		_, err = c.AddFunc("3-59/5 * * * *", func() {
			logger.Info("cron: observation drift running")
			st.RegenerateObservations(rng)
		})
		if err != nil {
			logger.Error("cron: scheduling observation drift failed", zap.Error(err))
		}
	}

	c.Start()
	return c
}
