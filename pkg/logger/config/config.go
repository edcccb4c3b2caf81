package config

import (
	"errors"
	"fmt"
)

// log levels, same numbering as zapcore.Level.
const (
	DEBUG_LEVEL = -1
	INFO_LEVEL  = 0
	WARN_LEVEL  = 1
	ERROR_LEVEL = 2
)

var ErrInvalidLogConfig = errors.New("invalid logger configuration")

type Configuration struct {
	Level      int
	TimeFormat string
}

func (c Configuration) Validate() error {
	if c.Level < DEBUG_LEVEL || c.Level > ERROR_LEVEL {
		return fmt.Errorf("%w: level %d out of range [%d, %d]", ErrInvalidLogConfig, c.Level, DEBUG_LEVEL, ERROR_LEVEL)
	}
	if c.TimeFormat == "" {
		return fmt.Errorf("%w: empty time format", ErrInvalidLogConfig)
	}
	return nil
}
