package main

import (
	"log"
	"math/rand"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go-ecoagent/config"
	"go-ecoagent/cronjobs"
	"go-ecoagent/detection"
	"go-ecoagent/detector"
	"go-ecoagent/estimator"
	"go-ecoagent/processor"
	"go-ecoagent/recommend"
	"go-ecoagent/routes"
	"go-ecoagent/simulation"
	"go-ecoagent/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()

	st := store.New(logger)
	st.LoadTemplate(rand.New(rand.NewSource(cfg.DemoSeed)))

	var est estimator.Estimator
	switch cfg.EstimatorMode {
	case config.EstimatorLive:
		est = estimator.NewLive(cfg.Thresholds)
	default:
		est = estimator.NewDemo(cfg.Thresholds, cfg.DemoSeed)
	}
	logger.Info("estimator ready", zap.String("mode", cfg.EstimatorMode))

	summarizer := recommend.NewOpenAISummarizer(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger)
	rec := recommend.New(summarizer, cfg.RecommendTimeout, cfg.RecommendWorkers, cfg.Thresholds, logger)

	pipeline := processor.NewPipeline(st, est, rec, cfg, logger)
	engine := simulation.NewEngine(pipeline, st, cfg.Thresholds, logger)

	client := detector.NewClient(cfg.DetectorURL, cfg.DetectorTimeout, logger)
	adapter := detection.NewAdapter(client, st, cfg.Thresholds, logger)

	cronjobs.InitCronJobs(cfg, pipeline, st, logger)

	r := routes.SetupRouter(routes.Deps{
		Store:    st,
		Pipeline: pipeline,
		Engine:   engine,
		Adapter:  adapter,
		Logger:   logger,
	})

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
