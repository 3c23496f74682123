package commands

import (
	"context"
	"net"
	"net/http"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lestorrr/NetLab/cmd/netlab/internal/exitcode"
	serversvc "github.com/lestorrr/NetLab/pkg/server"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestServerStart_ServesUntilCancelled(t *testing.T) {
	port := freePort(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prepare(t)
	done := make(chan error, 1)
	go func() {
		_, _, err := run(ctx, "server", "start", "--server.port", strconv.Itoa(port))
		done <- err
	}()

	url := "http://127.0.0.1:" + strconv.Itoa(port) + "/readyz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServerStart_LockHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.lock")
	lock, err := serversvc.AcquireLock(path)
	require.NoError(t, err)
	defer func() { _ = lock.Release() }()

	_, stderr, err := execute(t, context.Background(),
		"server", "start", "--server.port", strconv.Itoa(freePort(t)), "--lock-file", path, "--no-color")
	require.Error(t, err)
	require.ErrorIs(t, err, serversvc.ErrAlreadyRunning)
	require.True(t, exitcode.IsReported(err))
	require.Contains(t, stderr, "already running")
}

func TestServerStart_InvalidPort(t *testing.T) {
	_, _, err := execute(t, context.Background(), "server", "start", "--server.port", "70000", "--no-color")
	require.Error(t, err)
	require.Equal(t, 2, exitcode.Code(err))
}

func TestServerStart_TokenModeNeedsToken(t *testing.T) {
	_, stderr, err := execute(t, context.Background(),
		"server", "start", "--server.port", strconv.Itoa(freePort(t)), "--server.auth.mode", "token", "--no-color")
	require.Error(t, err)
	require.Equal(t, 2, exitcode.Code(err))
	require.Contains(t, stderr, "invalid server configuration")
}
