package appctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lestorrr/NetLab/pkg/config"
	"github.com/lestorrr/NetLab/pkg/scanexec"
)

func TestConfig(t *testing.T) {
	manager := config.NewManager()

	t.Run("round trip", func(t *testing.T) {
		got, ok := Config(WithConfig(context.Background(), manager))
		require.True(t, ok)
		assert.Same(t, manager, got)
	})

	t.Run("nil context", func(t *testing.T) {
		//nolint:staticcheck
		got, ok := Config(WithConfig(nil, manager))
		require.True(t, ok)
		assert.Same(t, manager, got)

		//nolint:staticcheck
		_, ok = Config(nil)
		assert.False(t, ok)
	})

	t.Run("missing", func(t *testing.T) {
		_, ok := Config(context.Background())
		assert.False(t, ok)
	})

	t.Run("nil manager", func(t *testing.T) {
		_, ok := Config(WithConfig(context.Background(), nil))
		assert.False(t, ok)
	})

	t.Run("wrong type", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), configKey, "not a manager")
		_, ok := Config(ctx)
		assert.False(t, ok)
	})
}

func TestService(t *testing.T) {
	svc := scanexec.NewService()
	assert.Same(t, svc, Service(WithService(context.Background(), svc)))

	assert.NotNil(t, Service(context.Background()), "falls back to a default service")
	//nolint:staticcheck
	assert.NotNil(t, Service(nil))
}
