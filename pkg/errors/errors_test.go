package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "basic error",
			err:      New(ErrCodeInvalidParameter, "bad count"),
			expected: "[ANT1001] ERROR: bad count",
		},
		{
			name: "error with suggestions",
			err: New(ErrCodeInvalidParameter, "bad count").
				WithSuggestions("Pass a positive value", "Check USERS_COUNT"),
			expected: "[ANT1001] ERROR: bad count\nSuggestions:\n  1. Pass a positive value\n  2. Check USERS_COUNT",
		},
		{
			name: "error with context",
			err: New(ErrCodeInvalidParameter, "bad count").
				WithContext("field", "users").
				WithContext("value", -1),
			expected: "[ANT1001] ERROR: bad count",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	baseErr := fmt.Errorf("permission denied")

	appErr := Wrap(baseErr, ErrCodeReadFailure, "failed to read seed")

	assert.Equal(t, baseErr, appErr.Cause)
	assert.Equal(t, ErrCodeReadFailure, appErr.Code)
	assert.ErrorIs(t, appErr, baseErr)
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "nothing"))
}

func TestWrapInheritsContext(t *testing.T) {
	inner := WriteFailure("/tmp/seeds/users.csv", fmt.Errorf("disk full"))
	outer := Wrap(inner, ErrCodeInternal, "generation failed")

	assert.Equal(t, "/tmp/seeds/users.csv", outer.Context["path"])
	assert.True(t, HasCode(outer, ErrCodeWriteFailure))
	assert.True(t, HasCode(outer, ErrCodeInternal))
}

func TestWriteFailure(t *testing.T) {
	err := WriteFailure("/data/raw/batch/orders.csv", fmt.Errorf("read-only file system"))

	require.Error(t, err)
	assert.Equal(t, ErrCodeWriteFailure, GetErrorCode(err))
	assert.Equal(t, "/data/raw/batch/orders.csv", PathOf(err))
	assert.Contains(t, err.Error(), "read-only file system")
}

func TestInvalidParameter(t *testing.T) {
	err := InvalidParameter("users", 0, "must be at least 1")

	assert.Equal(t, ErrCodeInvalidParameter, GetErrorCode(err))
	assert.Equal(t, "users", err.Context["field"])
	assert.Contains(t, err.Error(), "invalid users: must be at least 1")
}

func TestMissingDependency(t *testing.T) {
	err := MissingDependency("users seed", "dbt/seeds/users.csv")

	assert.Equal(t, SeverityWarning, err.Severity)
	assert.Equal(t, "dbt/seeds/users.csv", PathOf(err))
}

func TestGetErrorCodeDefaults(t *testing.T) {
	assert.Equal(t, ErrCodeInternal, GetErrorCode(fmt.Errorf("plain")))
	assert.Equal(t, "", PathOf(fmt.Errorf("plain")))

	wrapped := fmt.Errorf("outer: %w", ConfigError("bad level", "log.level"))
	assert.Equal(t, ErrCodeConfigInvalid, GetErrorCode(wrapped))
}
