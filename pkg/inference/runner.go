package inference

import "context"

// StaticRunner returns a fixed confidence regardless of input. It backs
// the simulated hardware mode and tests; real deployments inject runners
// from the export tooling.
type StaticRunner struct {
	Output TensorSpec
	Score  float32
}

func (r *StaticRunner) Invoke(_ context.Context, _ Tensor) (Tensor, error) {
	if r.Output.FixedPoint() {
		return Tensor{Shape: r.Output.Shape, Ints: r.Output.Quantize([]float32{r.Score})}, nil
	}

	return Tensor{Shape: r.Output.Shape, Floats: []float32{r.Score}}, nil
}

// EchoRunner reproduces its input exactly, the behavior of a perfectly
// converged autoencoder (zero reconstruction error). Input and output
// specs must share an encoding.
type EchoRunner struct{}

func (EchoRunner) Invoke(_ context.Context, input Tensor) (Tensor, error) {
	return input, nil
}
