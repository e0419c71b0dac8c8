// Package resource watches the monitor's own footprint. Limits are
// advisory: a breach is logged and surfaced through stats, but the
// monitoring loop is never throttled or stopped for it.
package resource

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"go.uber.org/zap"

	"github.com/premonitor/premonitor/pkg/models"
)

const defaultHistory = 100

// Probe reads the current process footprint. Swappable for tests.
type Probe func(ctx context.Context) (models.ResourceSample, error)

// Stats summarizes the retained sample history.
type Stats struct {
	Samples       int     `json:"samples"`
	MemoryMinMB   float64 `json:"memory_min_mb"`
	MemoryMaxMB   float64 `json:"memory_max_mb"`
	MemoryAvgMB   float64 `json:"memory_avg_mb"`
	CPUMinPercent float64 `json:"cpu_min_percent"`
	CPUMaxPercent float64 `json:"cpu_max_percent"`
	CPUAvgPercent float64 `json:"cpu_avg_percent"`
}

// Governor samples process memory and CPU once per cycle and retains a
// bounded history for the status API.
type Governor struct {
	probe  Probe
	limits models.ResourceLimits
	ring   *sampleRing
	logger *zap.Logger
}

func NewGovernor(limits models.ResourceLimits, logger *zap.Logger) (*Governor, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to open own process: %w", err)
	}

	return NewGovernorWithProbe(processProbe(proc), limits, logger), nil
}

// NewGovernorWithProbe builds a governor over a custom probe. Used by
// tests and embedders that bring their own measurement source.
func NewGovernorWithProbe(probe Probe, limits models.ResourceLimits, logger *zap.Logger) *Governor {
	return &Governor{
		probe:  probe,
		limits: limits,
		ring:   newSampleRing(defaultHistory),
		logger: logger,
	}
}

func processProbe(proc *process.Process) Probe {
	return func(ctx context.Context) (models.ResourceSample, error) {
		mem, err := proc.MemoryInfoWithContext(ctx)
		if err != nil {
			return models.ResourceSample{}, fmt.Errorf("failed to read memory info: %w", err)
		}

		// Interval 0 measures usage since the previous call; the first
		// sample of a run reads as zero.
		cpu, err := proc.PercentWithContext(ctx, 0)
		if err != nil {
			return models.ResourceSample{}, fmt.Errorf("failed to read cpu percent: %w", err)
		}

		return models.ResourceSample{
			Timestamp:  time.Now(),
			MemoryMB:   float64(mem.RSS) / (1024 * 1024),
			CPUPercent: cpu,
		}, nil
	}
}

// Sample takes one reading, records it, and warns on any soft limit
// breach.
func (g *Governor) Sample(ctx context.Context) (models.ResourceSample, error) {
	sample, err := g.probe(ctx)
	if err != nil {
		return models.ResourceSample{}, err
	}

	g.ring.add(sample)

	if g.limits.MemoryMB > 0 && sample.MemoryMB > g.limits.MemoryMB {
		g.logger.Warn("memory usage over soft limit",
			zap.Float64("memory_mb", sample.MemoryMB),
			zap.Float64("limit_mb", g.limits.MemoryMB))
	}

	if g.limits.CPUPercent > 0 && sample.CPUPercent > g.limits.CPUPercent {
		g.logger.Warn("cpu usage over soft limit",
			zap.Float64("cpu_percent", sample.CPUPercent),
			zap.Float64("limit_percent", g.limits.CPUPercent))
	}

	return sample, nil
}

// History returns the retained samples, oldest first.
func (g *Governor) History() []models.ResourceSample {
	return g.ring.snapshot()
}

// Stats aggregates the retained history. Zero samples yields zero stats.
func (g *Governor) Stats() Stats {
	samples := g.ring.snapshot()
	if len(samples) == 0 {
		return Stats{}
	}

	stats := Stats{
		Samples:       len(samples),
		MemoryMinMB:   samples[0].MemoryMB,
		CPUMinPercent: samples[0].CPUPercent,
	}

	var memSum, cpuSum float64

	for _, s := range samples {
		memSum += s.MemoryMB
		cpuSum += s.CPUPercent

		if s.MemoryMB < stats.MemoryMinMB {
			stats.MemoryMinMB = s.MemoryMB
		}

		if s.MemoryMB > stats.MemoryMaxMB {
			stats.MemoryMaxMB = s.MemoryMB
		}

		if s.CPUPercent < stats.CPUMinPercent {
			stats.CPUMinPercent = s.CPUPercent
		}

		if s.CPUPercent > stats.CPUMaxPercent {
			stats.CPUMaxPercent = s.CPUPercent
		}
	}

	stats.MemoryAvgMB = memSum / float64(len(samples))
	stats.CPUAvgPercent = cpuSum / float64(len(samples))

	return stats
}
