// Package appctx carries process-wide dependencies on a command context.
package appctx

import (
	"context"

	"github.com/lestorrr/NetLab/pkg/config"
	"github.com/lestorrr/NetLab/pkg/scanexec"
)

type key string

const (
	configKey  key = "netlab.config.manager"
	serviceKey key = "netlab.scan.service"
)

// WithConfig stores the shared config manager on context.
func WithConfig(ctx context.Context, manager *config.Manager) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configKey, manager)
}

// Config retrieves the shared config manager from context.
func Config(ctx context.Context) (*config.Manager, bool) {
	if ctx == nil {
		return nil, false
	}
	mgr, ok := ctx.Value(configKey).(*config.Manager)
	return mgr, ok && mgr != nil
}

// WithService stores the scan service used by commands.
func WithService(ctx context.Context, svc *scanexec.Service) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, serviceKey, svc)
}

// Service returns the scan service from ctx, or a new default service.
func Service(ctx context.Context) *scanexec.Service {
	if ctx != nil {
		if svc, ok := ctx.Value(serviceKey).(*scanexec.Service); ok && svc != nil {
			return svc
		}
	}
	return scanexec.NewService()
}
