package resource

import (
	"sync"

	"github.com/premonitor/premonitor/pkg/models"
)

// sampleRing is a fixed-size ring of resource samples. The control loop
// writes while the status API reads from handler goroutines, so both
// paths serialize on one mutex.
type sampleRing struct {
	mu      sync.Mutex
	samples []models.ResourceSample
	pos     int64
	size    int64
}

func newSampleRing(size int) *sampleRing {
	return &sampleRing{
		samples: make([]models.ResourceSample, size),
		size:    int64(size),
	}
}

func (r *sampleRing) add(sample models.ResourceSample) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.samples[r.pos%r.size] = sample
	r.pos++
}

// snapshot returns the retained samples, oldest first.
func (r *sampleRing) snapshot() []models.ResourceSample {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := r.pos
	if count > r.size {
		count = r.size
	}

	out := make([]models.ResourceSample, count)

	for i := int64(0); i < count; i++ {
		idx := (r.pos - count + i) % r.size
		out[i] = r.samples[idx]
	}

	return out
}
