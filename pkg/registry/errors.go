package registry

import "errors"

var (
	ErrUnknownKind     = errors.New("unknown equipment kind")
	ErrUnknownSensor   = errors.New("unknown sensor kind")
	ErrUnknownChannel  = errors.New("unknown alert channel")
	ErrMissingSensor   = errors.New("required sensor missing or disabled")
	ErrDuplicateID     = errors.New("duplicate equipment id")
	ErrEmptyID         = errors.New("equipment id is required")
	ErrUnknownEquipment = errors.New("equipment not registered")
)
