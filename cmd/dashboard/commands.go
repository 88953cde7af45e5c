package main

import (
	"github.com/spf13/cobra"
)

var (
	configPath  string
	backendAddr string

	rootCmd = &cobra.Command{
		Use:   "dashboard",
		Short: "Monitoring and control dashboard for the IoT simulator and analytics services",
		Long: `dashboard polls the device simulator and the analytics service, reads
recent alerts and analytics history from the document store, and serves the
combined view over HTTP, WebSocket and optionally MQTT.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard server",
		RunE:  runServe,
	}

	mockBackendCmd = &cobra.Command{
		Use:   "mock-backend",
		Short: "Run an in-memory simulator and analytics REST backend for local development",
		RunE:  runMockBackend,
	}

	checkConfigCmd = &cobra.Command{
		Use:   "check-config",
		Short: "Load and validate the configuration, print it, and exit",
		RunE:  runCheckConfig,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "application.yml", "path to the settings file")
	mockBackendCmd.Flags().StringVar(&backendAddr, "addr", ":8080", "listen address for the mock backend")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mockBackendCmd)
	rootCmd.AddCommand(checkConfigCmd)
}
