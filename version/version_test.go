package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFullVersion(t *testing.T) {
	saved := []string{Version, GitCommit, BuildDate}
	t.Cleanup(func() { Version, GitCommit, BuildDate = saved[0], saved[1], saved[2] })

	Version = "dev"
	assert.Equal(t, "dev", GetFullVersion())

	Version, GitCommit, BuildDate = "v1.2.0", "0123456789abcdef", "2026-10-01"
	assert.Equal(t, "v1.2.0 (0123456, built 2026-10-01)", GetFullVersion())
	assert.Equal(t, "v1.2.0", GetVersion())
}
