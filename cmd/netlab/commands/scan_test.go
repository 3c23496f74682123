package commands

import (
	"context"
	"encoding/json"
	"net"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lestorrr/NetLab/cmd/netlab/internal/exitcode"
)

// listen starts a TCP listener on loopback that accepts and closes connections.
func listen(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestScanCommand_TextOutput(t *testing.T) {
	port := listen(t)

	stdout, _, err := execute(t, context.Background(),
		"scan", "127.0.0.1", "--ports", strconv.Itoa(port), "--timeout", "2s", "--no-color")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Scanning 1 ports on 127.0.0.1...", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "Port "+strconv.Itoa(port)+" open ("), lines[1])
	require.True(t, strings.HasSuffix(lines[1], " ms)"), lines[1])
	require.True(t, strings.HasPrefix(lines[2], "Done in "), lines[2])
}

func TestScanCommand_NoOpenPorts(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	stdout, _, err := execute(t, context.Background(),
		"scan", "127.0.0.1", "--ports", strconv.Itoa(port), "--no-color")
	require.NoError(t, err)
	require.Contains(t, stdout, "No open ports found in selection.\n")
	require.Contains(t, stdout, "Done in ")
}

func TestScanCommand_BannerCountsParsedPorts(t *testing.T) {
	port := listen(t)
	spec := strconv.Itoa(port) + "," + strconv.Itoa(port) + ",0"

	stdout, _, err := execute(t, context.Background(),
		"scan", "127.0.0.1", "--ports", spec, "--timeout", "2s", "--no-color")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "Scanning 1 ports on 127.0.0.1...\n"), stdout)
}

func TestScanCommand_QuietOmitsBanner(t *testing.T) {
	port := listen(t)

	stdout, _, err := execute(t, context.Background(),
		"scan", "127.0.0.1", "--ports", strconv.Itoa(port), "--timeout", "2s", "--quiet", "--no-color")
	require.NoError(t, err)
	require.NotContains(t, stdout, "Scanning")
	require.Contains(t, stdout, "Port "+strconv.Itoa(port)+" open (")
}

func TestScanCommand_NoValidPorts(t *testing.T) {
	stdout, _, err := execute(t, context.Background(), "scan", "127.0.0.1", "--ports", "abc,0,70000")
	require.NoError(t, err, "an empty port set is not an error")
	require.Equal(t, "No valid ports parsed\n", stdout)
}

func TestScanCommand_JSONOutput(t *testing.T) {
	port := listen(t)

	stdout, _, err := execute(t, context.Background(),
		"scan", "127.0.0.1", "--ports", strconv.Itoa(port), "--timeout", "2s", "--output", "json")
	require.NoError(t, err)

	var payload struct {
		ScanID    string `json:"scan_id"`
		Host      string `json:"host"`
		OpenPorts []struct {
			Port int     `json:"port"`
			Ms   float64 `json:"ms"`
		} `json:"openPorts"`
		ClosedCount int `json:"closedCount"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &payload))
	require.NotEmpty(t, payload.ScanID)
	require.Equal(t, "127.0.0.1", payload.Host)
	require.Len(t, payload.OpenPorts, 1)
	require.Equal(t, port, payload.OpenPorts[0].Port)
	require.GreaterOrEqual(t, payload.OpenPorts[0].Ms, 0.0)
	require.Zero(t, payload.ClosedCount)
}

func TestScanCommand_YAMLOutput(t *testing.T) {
	port := listen(t)

	stdout, _, err := execute(t, context.Background(),
		"scan", "127.0.0.1", "--ports", strconv.Itoa(port), "--timeout", "2s", "--output", "yaml")
	require.NoError(t, err)
	require.Contains(t, stdout, "port: "+strconv.Itoa(port))
}

func TestScanCommand_InvalidOptions(t *testing.T) {
	_, stderr, err := execute(t, context.Background(), "scan", "example.com", "--output", "xml", "--no-color")
	require.Error(t, err)
	require.True(t, exitcode.IsReported(err))
	require.Equal(t, 2, exitcode.Code(err))
	require.Contains(t, stderr, "invalid output mode")
}

func TestScanCommand_EmptyHost(t *testing.T) {
	stdout, stderr, err := execute(t, context.Background(), "scan", "  ", "--no-color")
	require.Error(t, err)
	require.Equal(t, 2, exitcode.Code(err))
	require.Empty(t, stdout)
	require.Contains(t, stderr, "Failed to scan")
}

func TestScanCommand_RequiresHost(t *testing.T) {
	_, _, err := execute(t, context.Background(), "scan")
	require.Error(t, err)
	require.False(t, exitcode.IsReported(err))
	require.Equal(t, 1, exitcode.Code(err))
}
