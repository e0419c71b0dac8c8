// Package models pkg/models/resource.go
package models

import "time"

// ResourceSample is one observation of the process's resource usage.
type ResourceSample struct {
	Timestamp  time.Time `json:"timestamp"`
	MemoryMB   float64   `json:"memory_mb"`
	CPUPercent float64   `json:"cpu_percent"`
}

// ResourceLimits are soft limits; breaching one logs a warning and never
// stops the monitoring loop.
type ResourceLimits struct {
	MemoryMB   float64 `json:"memory_mb"`
	CPUPercent float64 `json:"cpu_percent"`
}
