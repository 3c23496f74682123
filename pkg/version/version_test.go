// pkg/version/version_test.go
package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfo_ReturnsFormattedString(t *testing.T) {
	info := Info()

	assert.Contains(t, info, "NetLab")
	assert.Contains(t, info, Version)
	assert.Contains(t, info, Commit)
	assert.Contains(t, info, BuildDate)
}

func TestGet_ReturnsCorrectStruct(t *testing.T) {
	v := Get()

	assert.Equal(t, Version, v.Version)
	assert.Equal(t, Commit, v.Commit)
	assert.Equal(t, BuildDate, v.BuildDate)
	assert.True(t, v.Prerelease, "dev builds count as pre-release")
}

func TestIsPrerelease(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"dev", true},
		{"1.2.0", false},
		{"v1.2.0", false},
		{"1.2.0-rc.1", true},
		{"0.1.0-alpha", true},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			require.Equal(t, tt.want, IsPrerelease(tt.version))
		})
	}
}

func TestStartDate_IsInitialized(t *testing.T) {
	require.Less(t, Uptime(), time.Minute)
}
