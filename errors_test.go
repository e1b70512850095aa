package recorder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandError(t *testing.T) {
	cause := errors.New("connection refused")

	err := CommandError{Command: "SET", Key: "key123", Err: cause}
	assert.Equal(t, "redis: SET key123: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	err = CommandError{Command: "FLUSHDB", Err: cause}
	assert.Equal(t, "redis: FLUSHDB: connection refused", err.Error())
}

func TestCastError(t *testing.T) {
	cause := errors.New("invalid syntax")

	err := CastError{Input: "abc", Err: cause}
	assert.Equal(t, `cast "abc": invalid syntax`, err.Error())
	assert.ErrorIs(t, err, cause)
}
