package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/nerrad567/zenoss-client/internal/api"
	"github.com/nerrad567/zenoss-client/internal/infrastructure/influxdb"
	"github.com/nerrad567/zenoss-client/internal/infrastructure/mqtt"
	"github.com/nerrad567/zenoss-client/internal/metrics"
	"github.com/nerrad567/zenoss-client/internal/relay"
)

func newRelayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "relay",
		Short: "Forward Zenoss events to MQTT and InfluxDB until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRelay(cmd.Context(), a)
		},
	}
}

// runRelay wires the relay's sinks from config and blocks until ctx is done.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - a: Shared command state
//
// Returns:
//   - error: nil on clean shutdown, or error describing a startup failure
func runRelay(ctx context.Context, a *app) error {
	client, err := a.connect(ctx)
	if err != nil {
		return err
	}
	cfg := a.cfg
	log := a.log
	log.Info("starting event relay",
		"version", version,
		"commit", commit,
		"zenoss", cfg.Zenoss.URL,
		"interval", cfg.GetRelayInterval(),
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	m.SetBuildInfo(version)
	client.SetObserver(m)

	rcfg := relay.Config{
		Source:   client,
		Metrics:  m,
		Interval: cfg.GetRelayInterval(),
		Limit:    cfg.Relay.Limit,
		Topics:   mqtt.NewTopics(cfg.MQTT.TopicPrefix),
		QoS:      byte(cfg.MQTT.QoS), //nolint:gosec // validated to 0..2 by config
		Username: cfg.Zenoss.Username,
		Server:   cfg.Zenoss.URL,
	}
	checks := map[string]api.HealthChecker{}

	repo, err := a.auditRepo(ctx)
	if err != nil {
		return err
	}
	if repo != nil {
		rcfg.Auditor = repo
		checks["database"] = a.db
	}

	if cfg.MQTT.Enabled {
		mqttClient, err := mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
			"prefix", mqttClient.Topics().Prefix(),
		)
		rcfg.Publisher = mqttClient
		rcfg.Subscriber = mqttClient
		checks["mqtt"] = mqttClient
	} else {
		log.Info("MQTT disabled")
	}

	if cfg.InfluxDB.Enabled {
		influxClient, err := influxdb.Connect(ctx, cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection", "failed_batches", influxClient.Failures())
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "org", cfg.InfluxDB.Org, "bucket", cfg.InfluxDB.Bucket)
		rcfg.Recorder = influxClient
		checks["influxdb"] = influxClient
	} else {
		log.Info("InfluxDB disabled")
	}

	var hub *api.Hub
	if cfg.Relay.MetricsAddr != "" {
		hub = api.NewHub(cfg.Relay.WebSocket, log)
		go hub.Run(ctx)
		rcfg.Broadcaster = hub
	}

	r, err := relay.New(rcfg)
	if err != nil {
		return err
	}
	r.SetLogger(log)

	if hub != nil {
		if cfg.Relay.API.JWTSecret == "" {
			log.Warn("relay api has no jwt_secret; /api/v1 is open")
		}
		srv, err := api.New(api.Deps{
			Addr:      cfg.Relay.MetricsAddr,
			Logger:    log,
			Gatherer:  reg,
			Audit:     repo,
			Hub:       hub,
			Checks:    checks,
			Version:   version,
			JWTSecret: cfg.Relay.API.JWTSecret,
		})
		if err != nil {
			return err
		}
		if err := srv.Start(); err != nil {
			return fmt.Errorf("starting http server: %w", err)
		}
		defer func() {
			if closeErr := srv.Close(); closeErr != nil {
				log.Error("error closing http server", "error", closeErr)
			}
		}()
	}

	if err := r.Start(ctx); err != nil {
		return fmt.Errorf("starting relay: %w", err)
	}
	log.Info("relay running, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	r.Stop()
	log.Info("relay stopped", "events_seen", r.Seen())
	return nil
}
