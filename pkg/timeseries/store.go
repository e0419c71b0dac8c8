// Package timeseries keeps the per-equipment rolling feature windows that
// feed the sequence anomaly model. Each window is a fixed-capacity ring
// with FIFO eviction and a single writer (the orchestrator's control
// thread).
package timeseries

import (
	"fmt"
)

// FeatureCount is the length of one feature vector. The order is fixed
// and must match the training pipeline:
// [temperature, gas, vibration, current, acoustic-rms, thermal-mean].
const FeatureCount = 6

// DefaultCapacity is the number of timesteps the sequence model consumes.
const DefaultCapacity = 50

var errFeatureLength = fmt.Errorf("feature vector has wrong length")

// window is one equipment's ring of feature vectors.
type window struct {
	steps [][]float32
	head  int
	count int
}

func (w *window) append(features []float32) {
	if w.count < len(w.steps) {
		w.steps[(w.head+w.count)%len(w.steps)] = features
		w.count++

		return
	}

	// Full: overwrite the oldest and advance.
	w.steps[w.head] = features
	w.head = (w.head + 1) % len(w.steps)
}

// snapshot returns the window's vectors oldest-first.
func (w *window) snapshot() [][]float32 {
	out := make([][]float32, w.count)
	for i := 0; i < w.count; i++ {
		out[i] = w.steps[(w.head+i)%len(w.steps)]
	}

	return out
}

// Store owns one FeatureWindow per equipment id, created lazily on first
// append.
type Store struct {
	capacity int
	windows  map[string]*window
}

// NewStore creates a store whose windows hold capacity timesteps.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Store{
		capacity: capacity,
		windows:  make(map[string]*window),
	}
}

// Append adds one feature vector to the equipment's window, evicting the
// oldest timestep once the window is at capacity.
func (s *Store) Append(equipmentID string, features []float32) error {
	if len(features) != FeatureCount {
		return fmt.Errorf("%w: got %d, want %d", errFeatureLength, len(features), FeatureCount)
	}

	w, ok := s.windows[equipmentID]
	if !ok {
		w = &window{steps: make([][]float32, s.capacity)}
		s.windows[equipmentID] = w
	}

	w.append(features)

	return nil
}

// Full reports whether the equipment's window holds a complete sequence.
// The sequence model must not run before this is true.
func (s *Store) Full(equipmentID string) bool {
	w, ok := s.windows[equipmentID]
	return ok && w.count == s.capacity
}

// Len returns the number of timesteps currently buffered for the
// equipment.
func (s *Store) Len(equipmentID string) int {
	w, ok := s.windows[equipmentID]
	if !ok {
		return 0
	}

	return w.count
}

// Capacity returns the configured window length.
func (s *Store) Capacity() int {
	return s.capacity
}

// Window returns the equipment's feature window flattened oldest-first,
// with its [timesteps, features] shape.
func (s *Store) Window(equipmentID string) ([]float32, []int) {
	w, ok := s.windows[equipmentID]
	if !ok {
		return nil, nil
	}

	steps := w.snapshot()
	flat := make([]float32, 0, len(steps)*FeatureCount)

	for _, step := range steps {
		flat = append(flat, step...)
	}

	return flat, []int{len(steps), FeatureCount}
}
