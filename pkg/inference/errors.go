package inference

import "errors"

var (
	ErrUnknownModel  = errors.New("no artifact loaded for model kind")
	ErrShapeMismatch = errors.New("input shape does not match artifact")
	ErrEncoding      = errors.New("fixed-point artifact missing scale/zero-point")
	ErrBadOutput     = errors.New("artifact returned malformed output")
)
