package main

import (
	"net/http"

	"github.com/cuemby/journalset/pkg/config"
	"github.com/cuemby/journalset/pkg/events"
	"github.com/cuemby/journalset/pkg/log"
	"github.com/cuemby/journalset/pkg/metrics"
	"github.com/cuemby/journalset/pkg/registry"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the configured journal set and serve /metrics and health endpoints",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("data-dir", "./journalsetctl-data", "Directory for the storage registry database")
}

func runServe(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	dataDir, _ := cmd.Flags().GetString("data-dir")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	reg, err := registry.NewBoltRegistry(dataDir)
	if err != nil {
		return err
	}
	defer reg.Close()

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	serveLog := log.WithComponent("journalsetctl")

	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)
	go func() {
		for event := range sub {
			serveLog.Warn().
				Str("event_id", event.ID).
				Str("event_type", string(event.Type)).
				Fields(event.Metadata).
				Msg(event.Message)
		}
	}()

	set, err := buildSet(cfg, reg, broker)
	if err != nil {
		return err
	}
	defer set.Close()

	metrics.RegisterComponent("journal_set", true, "")
	metrics.RegisterComponent("registry", true, "")

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/health", metrics.HealthHandler())
	mux.Handle("/ready", metrics.ReadyHandler())
	mux.Handle("/live", metrics.LivenessHandler())

	serveLog.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics and health endpoints")

	return http.ListenAndServe(cfg.MetricsAddr, mux)
}
