package hardware

import "errors"

var (
	ErrTransient         = errors.New("transient sensor read failure")
	ErrSensorDisabled    = errors.New("sensor not enabled for equipment")
	ErrUnsupportedSensor = errors.New("sensor kind not supported by provider")
	ErrMissingAddress    = errors.New("sensor address field missing")
)
