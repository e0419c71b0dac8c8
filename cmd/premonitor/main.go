package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/premonitor/premonitor/pkg/alerts"
	"github.com/premonitor/premonitor/pkg/api"
	"github.com/premonitor/premonitor/pkg/config"
	"github.com/premonitor/premonitor/pkg/decision"
	"github.com/premonitor/premonitor/pkg/hardware"
	"github.com/premonitor/premonitor/pkg/inference"
	"github.com/premonitor/premonitor/pkg/lifecycle"
	"github.com/premonitor/premonitor/pkg/metrics"
	"github.com/premonitor/premonitor/pkg/models"
	"github.com/premonitor/premonitor/pkg/monitor"
	"github.com/premonitor/premonitor/pkg/registry"
	"github.com/premonitor/premonitor/pkg/resource"
	"github.com/premonitor/premonitor/pkg/timeseries"
)

func main() {
	configPath := flag.String("config", "/etc/premonitor/monitor.json", "Path to config file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(*configPath, logger); err != nil {
		logger.Fatal("monitor exited", zap.Error(err))
	}
}

func run(configPath string, logger *zap.Logger) error {
	var cfg config.MonitorConfig
	if err := config.LoadAndValidate(configPath, &cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	reg, err := registry.New(cfg.Equipment)
	if err != nil {
		return fmt.Errorf("invalid equipment registry: %w", err)
	}

	artifacts, err := loadArtifacts(cfg.Artifacts)
	if err != nil {
		return fmt.Errorf("failed to load model artifacts: %w", err)
	}

	engine := inference.NewEngine(logger, artifacts...)

	if err := startupCheck(&cfg, reg, engine); err != nil {
		return err
	}

	provider, err := buildProvider(&cfg, artifacts, logger)
	if err != nil {
		return err
	}

	governor, err := resource.NewGovernor(cfg.ResourceLimits, logger)
	if err != nil {
		return fmt.Errorf("failed to start resource governor: %w", err)
	}

	mets := metrics.New()

	dispatcher := alerts.NewDispatcher(
		time.Duration(cfg.Alerts.Cooldown), logger, buildChannels(&cfg.Alerts, logger)...)

	decider, err := buildDecisionEngine(&cfg.Security, logger)
	if err != nil {
		return err
	}

	mon := monitor.New(cfg.NodeID, time.Duration(cfg.PollInterval), monitor.Deps{
		Registry:   reg,
		Provider:   provider,
		Inference:  engine,
		Windows:    timeseries.NewStore(cfg.WindowCapacity),
		Decision:   decider,
		Dispatcher: dispatcher,
		Governor:   governor,
		Metrics:    mets,
		Logger:     logger,
	})

	apiServer := api.NewServer(mon, governor, mets, logger)

	return lifecycle.RunServer(context.Background(), &lifecycle.ServerOptions{
		ListenAddr:  cfg.ListenAddr,
		ServiceName: "premonitor",
		Service:     mon,
		Handler:     apiServer.Router(),
		Logger:      logger,
	})
}

// buildDecisionEngine attaches tamper detection and after-hours
// escalation when the security section enables them.
func buildDecisionEngine(cfg *config.SecurityConfig, logger *zap.Logger) (*decision.Engine, error) {
	engine := decision.NewEngine(logger)

	if !cfg.TamperEnabled {
		return engine, nil
	}

	hours, err := decision.NewSchedule(cfg.BusinessStart, cfg.BusinessEnd, cfg.OpenWeekends)
	if err != nil {
		return nil, fmt.Errorf("invalid business hours: %w", err)
	}

	tamper := decision.NewTamperDetector(decision.TamperConfig{
		VibrationThresholdG:    cfg.VibrationThresholdG,
		TemperatureRateCPerMin: cfg.TemperatureRateCPerMin,
	})

	return engine.WithSecurity(tamper, hours), nil
}

// startupCheck fails fast on a deployment that could never monitor
// anything: a node with no assigned units, or units whose models have no
// loaded artifact.
func startupCheck(cfg *config.MonitorConfig, reg *registry.Registry, engine *inference.Engine) error {
	units := reg.ForNode(cfg.NodeID)
	if len(units) == 0 {
		return fmt.Errorf("no equipment assigned to node %q", cfg.NodeID)
	}

	for _, unit := range units {
		for _, kind := range registry.Models(unit.Kind) {
			if !engine.Has(kind) {
				return fmt.Errorf("equipment %q needs model %s but no artifact is configured", unit.ID, kind)
			}
		}
	}

	return nil
}

// artifactManifest is the on-disk description of one exported model:
// tensor specs plus the simulated score used until a real runner binding
// is configured.
type artifactManifest struct {
	Input  inference.TensorSpec `json:"input"`
	Output inference.TensorSpec `json:"output"`
	Score  float32              `json:"score,omitempty"`
}

func loadArtifacts(entries []config.ArtifactConfig) ([]*inference.Artifact, error) {
	artifacts := make([]*inference.Artifact, 0, len(entries))

	for _, entry := range entries {
		var manifest artifactManifest
		if err := config.LoadFile(entry.Path, &manifest); err != nil {
			return nil, fmt.Errorf("artifact %s: %w", entry.Kind, err)
		}

		var runner inference.Runner
		if entry.Kind == models.ModelSequenceAE {
			runner = inference.EchoRunner{}
		} else {
			runner = &inference.StaticRunner{Output: manifest.Output, Score: manifest.Score}
		}

		artifacts = append(artifacts, &inference.Artifact{
			Kind:   entry.Kind,
			Input:  manifest.Input,
			Output: manifest.Output,
			Runner: runner,
		})
	}

	return artifacts, nil
}

func buildProvider(cfg *config.MonitorConfig, artifacts []*inference.Artifact, logger *zap.Logger) (hardware.Provider, error) {
	switch cfg.HardwareMode {
	case config.HardwareSNMP:
		return hardware.WithRetry(hardware.NewSNMPProvider(), 0, 0, logger), nil
	case config.HardwareSimulated:
		shapes := make(map[models.SensorKind][]int)

		for _, a := range artifacts {
			switch a.Kind {
			case models.ModelThermalCNN:
				shapes[models.SensorThermal] = a.Input.Shape
			case models.ModelAcousticCNN:
				shapes[models.SensorAcoustic] = a.Input.Shape
			}
		}

		return hardware.NewSimulated(shapes, time.Now().UnixNano()), nil
	default:
		return nil, fmt.Errorf("unknown hardware mode %q", cfg.HardwareMode)
	}
}

// buildChannels wires up every enabled alert channel. Email and SMS need
// an external transport binding; until one is configured they are
// reported and skipped rather than silently dropped.
func buildChannels(cfg *config.AlertsConfig, logger *zap.Logger) []alerts.Channel {
	var channels []alerts.Channel

	if cfg.Webhook.Enabled {
		channels = append(channels, alerts.NewWebhookChannel(cfg.Webhook, logger))
	}

	if cfg.Email.Enabled {
		logger.Warn("email channel enabled but no transport is configured, skipping")
	}

	if cfg.SMS.Enabled {
		logger.Warn("sms channel enabled but no transport is configured, skipping")
	}

	return channels
}
