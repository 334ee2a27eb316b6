package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gotest.tools/v3/assert"
)

func TestNewWheelStorageMockDestination(t *testing.T) {
	t.Setenv("WHEEL_UPLOAD_DESTINATION", "mock")

	wheelStorage, err := NewWheelStorage()
	require.NoError(t, err)
	_, ok := wheelStorage.(*MockWheelStorage)
	assert.Equal(t, ok, true)
}

func TestNewWheelStorageUnsetDestination(t *testing.T) {
	t.Setenv("WHEEL_UPLOAD_DESTINATION", "")

	_, err := NewWheelStorage()
	require.Error(t, err)
	assert.ErrorContains(t, err, "is not supported")
}

func TestNewWheelStorageUnknownDestination(t *testing.T) {
	t.Setenv("WHEEL_UPLOAD_DESTINATION", "ftp")

	_, err := NewWheelStorage()
	require.Error(t, err)
	assert.ErrorContains(t, err, "'ftp' is not supported")
}
