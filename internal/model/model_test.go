package model

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCPUTicksTotals(t *testing.T) {
	ticks := CPUTicks{User: 1, Nice: 2, System: 3, Idle: 4, Iowait: 5, IRQ: 6, SoftIRQ: 7}
	assert.Equal(t, uint64(28), ticks.Total())
	assert.Equal(t, uint64(9), ticks.IdleTotal())
}

func TestMemoryUsagePercent(t *testing.T) {
	m := MemoryReading{TotalKB: 1000, FreeKB: 100, AvailableKB: 400}
	pct, err := m.UsagePercent()
	require.NoError(t, err)
	assert.Equal(t, uint64(600), m.UsedKB())
	assert.InDelta(t, 60.0, pct, 1e-9)

	_, err = MemoryReading{}.UsagePercent()
	require.ErrorIs(t, err, ErrDegenerate)

	_, err = MemoryReading{TotalKB: 10, AvailableKB: 20}.UsagePercent()
	require.ErrorIs(t, err, ErrDegenerate)
}

func TestMemoryUsageWithoutAvailable(t *testing.T) {
	// MemAvailable absent: the zero default makes the whole of RAM look used.
	pct, err := MemoryReading{TotalKB: 1000, FreeKB: 500}.UsagePercent()
	require.NoError(t, err)
	assert.InDelta(t, 100.0, pct, 1e-9)
}

func TestDiskUsagePercent(t *testing.T) {
	d := DiskReading{TotalBytes: 4096000, FreeBytes: 1024000}
	pct, err := d.UsagePercent()
	require.NoError(t, err)
	assert.Equal(t, uint64(3072000), d.UsedBytes())
	assert.InDelta(t, 75.0, pct, 1e-9)

	_, err = DiskReading{}.UsagePercent()
	require.ErrorIs(t, err, ErrDegenerate)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		state State
	}{
		{"nil", nil, Ready},
		{"not ready", fmt.Errorf("cpu: %w", ErrNotReady), Pending},
		{"parse", Parsef("bad token %q", "x"), Unavailable},
		{"source", Unavailablef(os.ErrNotExist, "open %s", "/proc/stat"), Unavailable},
		{"degenerate", Degenerate("zero"), Unavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := StatusFor(tt.err)
			assert.Equal(t, tt.state, st.State)
			if tt.err == nil {
				assert.Empty(t, st.Reason)
				assert.NoError(t, st.Err)
				assert.True(t, st.Ready())
			} else {
				assert.Equal(t, tt.err.Error(), st.Reason)
				assert.ErrorIs(t, st.Err, tt.err)
			}
		})
	}
}

func TestUnavailablefKeepsCause(t *testing.T) {
	err := Unavailablef(os.ErrNotExist, "open %s", "/proc/meminfo")
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "/proc/meminfo")
}

func TestToolMissingIsSourceUnavailable(t *testing.T) {
	err := fmt.Errorf("%w: nvidia-smi", ErrToolMissing)
	assert.ErrorIs(t, err, ErrSourceUnavailable)
	st := StatusFor(err)
	assert.Equal(t, Unavailable, st.State)
	assert.ErrorIs(t, st.Err, ErrToolMissing)
}

func TestZeroIsPending(t *testing.T) {
	s := Zero()
	assert.False(t, s.Timestamp.IsZero())
	assert.Equal(t, Pending, s.CPU.State)
	assert.Equal(t, Pending, s.GPU.State)
	assert.Equal(t, "pending", s.Disk.State.String())
}
