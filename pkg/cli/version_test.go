package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	v "github.com/lestorrr/NetLab/pkg/version"
)

func TestVersionCommand_Short(t *testing.T) {
	cmd := NewVersionCommand("netlab")
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--short"})

	require.NoError(t, cmd.Execute())
	require.Equal(t, v.Version+"\n", buf.String())
}

func TestVersionCommand_Full(t *testing.T) {
	cmd := NewVersionCommand("netlab")
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	out := buf.String()
	require.True(t, strings.HasPrefix(out, "netlab version: "+v.Version))
	require.Contains(t, out, "Go Version: go")
	require.Contains(t, out, "Channel: pre-release", "dev builds are pre-release")
}
