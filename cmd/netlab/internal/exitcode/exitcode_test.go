package exitcode

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	base := errors.New("denied")

	require.Equal(t, 0, Code(nil))
	require.Equal(t, 1, Code(base))
	require.Equal(t, 2, Code(Reported(base, 2)))
	require.Equal(t, 2, Code(fmt.Errorf("wrapped: %w", Reported(base, 2))))
	require.Equal(t, 1, Code(Reported(base, 0)))
}

func TestReported(t *testing.T) {
	base := errors.New("denied")
	err := Reported(base, 2)

	require.True(t, IsReported(err))
	require.False(t, IsReported(base))
	require.ErrorIs(t, err, base)
	require.Equal(t, "denied", err.Error())
	require.Nil(t, Reported(nil, 2))
}
