package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"IoTDashboard/internal/app"
	"IoTDashboard/internal/config"
	"IoTDashboard/internal/logger"
	"IoTDashboard/internal/mode"

	"github.com/spf13/cobra"
)

// loadConfig reads the settings and applies the file's mock-mode flag to the
// switch; the MOCK_MODE environment variable still wins.
func loadConfig() (*config.Config, *mode.Switch, error) {
	sw := mode.New()
	cfg, err := config.Load(configPath, sw)
	if err != nil {
		return nil, nil, err
	}
	sw.Set(cfg.MockMode)
	if sw.EnvOverride() {
		cfg.MockMode = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, sw, nil
}

func newLogger(cfg *config.Config) *logger.Logger {
	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Mode:        cfg.Logging.Mode,
		LogFilePath: cfg.Logging.FilePath,
		UseColors:   cfg.Logging.UseColors,
	})
	if err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}
	return log
}

func runServe(cmd *cobra.Command, args []string) error {
	// 1. Config
	cfg, sw, err := loadConfig()
	if err != nil {
		logger.Fatal("Configuration error: %v", err)
	}

	// 2. Logger
	log := newLogger(cfg)
	defer log.Close()

	cfg.Print()
	if sw.EnvOverride() {
		log.Warn("%s is set, forcing mock mode", mode.EnvVar)
	}
	log.Info("Starting IoT Dashboard")

	// 3. Components
	application, err := app.New(cfg, sw, log)
	if err != nil {
		log.Fatal("Failed to initialize dashboard: %v", err)
	}

	// 4. Run until signalled
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		log.Error("Dashboard stopped with error: %v", err)
		return err
	}
	return nil
}

func runCheckConfig(cmd *cobra.Command, args []string) error {
	cfg, sw, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Print()
	cmd.Printf("Mode: %s\n", sw.Name())
	cmd.Println("Configuration OK")
	return nil
}
