package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lestorrr/NetLab/pkg/scanexec"
)

func TestProgressPrinter(t *testing.T) {
	buf := &bytes.Buffer{}
	p := newProgressPrinter(buf)

	p.OnEvent(scanexec.ProgressEvent{Phase: "resolve", Status: "completed"})
	require.Empty(t, buf.String(), "resolve events are not drawn")

	p.OnEvent(scanexec.ProgressEvent{Phase: "scan", Status: "start", Total: 3})
	p.OnEvent(scanexec.ProgressEvent{Phase: "probe", Port: 22, Status: "open"})
	p.OnEvent(scanexec.ProgressEvent{Phase: "probe", Port: 23, Status: "closed"})
	p.OnEvent(scanexec.ProgressEvent{Phase: "probe", Port: 24, Status: "closed"})
	p.OnEvent(scanexec.ProgressEvent{Phase: "scan", Status: "completed"})

	out := buf.String()
	require.Contains(t, out, "scanned 3/3")
	require.Contains(t, out, "open 1")
	require.True(t, strings.HasSuffix(out, "\n"))

	before := buf.Len()
	p.OnEvent(scanexec.ProgressEvent{Phase: "probe", Port: 25, Status: "closed"})
	require.Equal(t, before, buf.Len(), "late probe events are ignored after completion")
}
