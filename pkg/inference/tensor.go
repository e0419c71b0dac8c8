package inference

import "math"

// NumericType is the storage encoding of a tensor.
type NumericType string

const (
	TypeFloat32 NumericType = "float32"
	TypeInt8    NumericType = "int8"
	TypeUInt8   NumericType = "uint8"
)

// TensorSpec declares the shape and encoding of an artifact's input or
// output. Scale and ZeroPoint are meaningful only for fixed-point types;
// a fixed-point spec without a scale is an EncodingError at score time.
type TensorSpec struct {
	Shape     []int       `json:"shape"`
	Type      NumericType `json:"type"`
	Scale     float64     `json:"scale,omitempty"`
	ZeroPoint int32       `json:"zero_point,omitempty"`
}

// FixedPoint reports whether the spec stores integers.
func (s TensorSpec) FixedPoint() bool {
	return s.Type == TypeInt8 || s.Type == TypeUInt8
}

func (s TensorSpec) intRange() (int32, int32) {
	if s.Type == TypeInt8 {
		return math.MinInt8, math.MaxInt8
	}

	return 0, math.MaxUint8
}

// Tensor is the value passed across the artifact boundary. Exactly one of
// Floats or Ints is set, matching the owning spec's type.
type Tensor struct {
	Shape  []int
	Floats []float32
	Ints   []int32
}

// Quantize maps real values into the spec's fixed-point representation:
// round(v/scale + zeroPoint), clamped to the representable range. The
// affine mapping is applied exactly once; callers must hand in
// unquantized values.
func (s TensorSpec) Quantize(values []float32) []int32 {
	lo, hi := s.intRange()
	out := make([]int32, len(values))

	for i, v := range values {
		// Clamp before the int conversion; float to int is not defined
		// for values outside the target range, so a huge input must
		// saturate in the float domain.
		q := math.Round(float64(v)/s.Scale + float64(s.ZeroPoint))
		if q < float64(lo) {
			q = float64(lo)
		}

		if q > float64(hi) {
			q = float64(hi)
		}

		out[i] = int32(q)
	}

	return out
}

// Dequantize inverts the affine mapping: scale * (raw - zeroPoint).
func (s TensorSpec) Dequantize(raw []int32) []float32 {
	out := make([]float32, len(raw))
	for i, q := range raw {
		out[i] = float32(s.Scale * float64(q-s.ZeroPoint))
	}

	return out
}

func elementCount(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}

	return n
}

// shapeCompatible checks an input shape against a declared spec shape. A
// leading batch dimension of 1 or -1 in the spec may be omitted by the
// input; -1 anywhere in the spec matches any size.
func shapeCompatible(spec, got []int) bool {
	if len(spec) == len(got)+1 && (spec[0] == 1 || spec[0] == -1) {
		spec = spec[1:]
	}

	if len(spec) != len(got) {
		return false
	}

	for i := range spec {
		if spec[i] != -1 && spec[i] != got[i] {
			return false
		}
	}

	return true
}
