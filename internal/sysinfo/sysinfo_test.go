package sysinfo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marrowlane/preflight/internal/sysinfo"
)

func TestEstimateModelRAMGB(t *testing.T) {
	cases := []struct {
		tag    string
		wantGB float64
		known  bool
	}{
		{"qwen3:4b", 4.0, true},
		{"llama3.2:70b", 53.5, true},
		{"qwen3:0.6b", 1.45, true},
		{"gemma:2b-instruct", 2.5, true},
		{"mistral:latest", 0, false},
		{"llava", 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.tag, func(t *testing.T) {
			gb, known := sysinfo.EstimateModelRAMGB(tc.tag)
			require.Equal(t, tc.known, known)
			if tc.known {
				assert.InDelta(t, tc.wantGB, gb, 0.01)
			}
		})
	}
}

func TestCollect(t *testing.T) {
	info := sysinfo.Collect()

	assert.GreaterOrEqual(t, info.LogicalCores, 1)
	assert.GreaterOrEqual(t, info.PhysicalCores, 1)
	assert.LessOrEqual(t, info.PhysicalCores, info.LogicalCores)
	assert.Greater(t, info.RAMGB, 0.0)
}

func TestAvailableRAMGB(t *testing.T) {
	assert.Greater(t, sysinfo.AvailableRAMGB(), 0.0)
}
