package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	assert.NoError(t, Configuration{Level: INFO_LEVEL, TimeFormat: time.RFC3339Nano}.Validate())
	assert.NoError(t, Configuration{Level: DEBUG_LEVEL, TimeFormat: time.Kitchen}.Validate())

	err := Configuration{Level: 7, TimeFormat: time.RFC3339}.Validate()
	assert.ErrorIs(t, err, ErrInvalidLogConfig)

	err = Configuration{Level: INFO_LEVEL}.Validate()
	assert.ErrorIs(t, err, ErrInvalidLogConfig)
}
