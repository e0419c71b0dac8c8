// Package inference wraps pretrained model artifacts behind a uniform
// float-valued scoring call. Artifacts may store tensors as float32 or as
// affine-quantized int8/uint8; the engine quantizes inputs and
// dequantizes outputs so no fixed-point value ever crosses into the
// decision layer.
package inference

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/premonitor/premonitor/pkg/models"
)

// Runner executes one loaded artifact. Implementations are external
// (export tooling, accelerator bindings); the engine only guarantees the
// tensor it hands over matches the artifact's declared input spec.
type Runner interface {
	Invoke(ctx context.Context, input Tensor) (Tensor, error)
}

// Artifact is one loaded model: declared tensor specs plus its runner.
// Artifacts are read-only and shared across every unit of the same kind.
type Artifact struct {
	Kind   models.ModelKind
	Input  TensorSpec
	Output TensorSpec
	Runner Runner
}

// Engine is a read-only cache of loaded artifacts keyed by model kind.
// Scoring has no side effects beyond the runner call.
type Engine struct {
	artifacts map[models.ModelKind]*Artifact
	logger    *zap.Logger
}

// NewEngine builds the artifact cache. The set is fixed at startup.
func NewEngine(logger *zap.Logger, artifacts ...*Artifact) *Engine {
	cache := make(map[models.ModelKind]*Artifact, len(artifacts))
	for _, a := range artifacts {
		cache[a.Kind] = a
	}

	return &Engine{artifacts: cache, logger: logger}
}

// Has reports whether an artifact is loaded for the kind.
func (e *Engine) Has(kind models.ModelKind) bool {
	_, ok := e.artifacts[kind]
	return ok
}

// Score runs one classification artifact and returns its scalar
// confidence in [0, 1].
func (e *Engine) Score(ctx context.Context, kind models.ModelKind, input []float32, shape []int) (float64, error) {
	decoded, err := e.invoke(ctx, kind, input, shape)
	if err != nil {
		return 0, err
	}

	score := float64(decoded[0])
	if score < 0 {
		score = 0
	}

	if score > 1 {
		score = 1
	}

	return score, nil
}

// ReconstructionError runs a sequence autoencoder over a full feature
// window and returns the mean squared error between the window and its
// reconstruction. Unlike Score the result is not clamped.
func (e *Engine) ReconstructionError(ctx context.Context, kind models.ModelKind, window []float32, shape []int) (float64, error) {
	decoded, err := e.invoke(ctx, kind, window, shape)
	if err != nil {
		return 0, err
	}

	if len(decoded) != len(window) {
		return 0, fmt.Errorf("%w: reconstruction has %d elements, window has %d",
			ErrBadOutput, len(decoded), len(window))
	}

	var sum float64

	for i := range window {
		d := float64(window[i] - decoded[i])
		sum += d * d
	}

	return sum / float64(len(window)), nil
}

func (e *Engine) invoke(ctx context.Context, kind models.ModelKind, input []float32, shape []int) ([]float32, error) {
	artifact, ok := e.artifacts[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModel, kind)
	}

	if !shapeCompatible(artifact.Input.Shape, shape) {
		return nil, fmt.Errorf("%w: model %s declares %v, got %v",
			ErrShapeMismatch, kind, artifact.Input.Shape, shape)
	}

	if len(input) != elementCount(shape) {
		return nil, fmt.Errorf("%w: %d elements for shape %v", ErrShapeMismatch, len(input), shape)
	}

	in, err := encode(artifact.Input, input, shape)
	if err != nil {
		return nil, fmt.Errorf("model %s input: %w", kind, err)
	}

	out, err := artifact.Runner.Invoke(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("model %s invoke: %w", kind, err)
	}

	decoded, err := decode(artifact.Output, out)
	if err != nil {
		return nil, fmt.Errorf("model %s output: %w", kind, err)
	}

	if len(decoded) == 0 {
		return nil, fmt.Errorf("%w: empty result from model %s", ErrBadOutput, kind)
	}

	return decoded, nil
}

func encode(spec TensorSpec, values []float32, shape []int) (Tensor, error) {
	if !spec.FixedPoint() {
		return Tensor{Shape: shape, Floats: values}, nil
	}

	if spec.Scale == 0 {
		return Tensor{}, ErrEncoding
	}

	return Tensor{Shape: shape, Ints: spec.Quantize(values)}, nil
}

func decode(spec TensorSpec, t Tensor) ([]float32, error) {
	if !spec.FixedPoint() {
		if t.Floats == nil {
			return nil, fmt.Errorf("%w: expected float output", ErrBadOutput)
		}

		return t.Floats, nil
	}

	if spec.Scale == 0 {
		return nil, ErrEncoding
	}

	if t.Ints == nil {
		return nil, fmt.Errorf("%w: expected fixed-point output", ErrBadOutput)
	}

	return spec.Dequantize(t.Ints), nil
}
