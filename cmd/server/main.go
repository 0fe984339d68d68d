package main

import (
	"context"
	"os"

	"github.com/agenthands/biokag/internal/config"
	"github.com/agenthands/biokag/internal/core"
	"github.com/agenthands/biokag/internal/logger"
	"github.com/agenthands/biokag/internal/logger/console"
	"github.com/agenthands/biokag/internal/server"

	"github.com/joho/godotenv"
)

func main() {
	envErr := godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		logger.Init(console.New(console.Params{}))
		logger.Fatal("failed to load configuration", "path", cfgPath, "error", err)
	}
	cfg.ApplyEnv()
	logger.Init(console.New(console.Params{Debug: cfg.Logging.Debug}))
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	if envErr != nil {
		logger.Info("no .env file found, using environment")
	}

	ctx := context.Background()
	opts, cleanup, err := core.OptionsFromConfig(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to set up", "error", err)
	}
	defer cleanup()

	k, err := core.Open(ctx, opts)
	if err != nil {
		logger.Fatal("failed to open graph", "error", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := server.NewServer(k).SetupRouter()
	logger.Info("starting server", "port", port, "storage", cfg.Storage.Backend, "synthesizer", cfg.Query.Synthesizer)
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("server stopped", "error", err)
	}
}
