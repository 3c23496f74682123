package server

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAcquireLock_Exclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "netlab.lock")

	first, err := AcquireLock(path)
	require.NoError(t, err)
	require.Equal(t, path, first.Path())

	_, err = AcquireLock(path)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrAlreadyRunning))
	require.Equal(t, "SERVER_ALREADY_RUNNING", ErrorCode(err))
	require.NotEmpty(t, Suggestions(err))

	require.NoError(t, first.Release())

	second, err := AcquireLock(path)
	require.NoError(t, err)
	require.NoError(t, second.Release())
}

func TestInstanceLock_ReleaseNil(t *testing.T) {
	var l *InstanceLock
	require.NoError(t, l.Release())
}
