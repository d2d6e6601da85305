package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/hostpanel/internal/model"
)

func readySnapshot() model.Snapshot {
	ready := model.Status{State: model.Ready}
	return model.Snapshot{
		Timestamp: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
		Interval:  time.Second,
		CPU:       model.CPU{Status: ready, UsagePercent: 20},
		Memory: model.Memory{
			Status:        ready,
			MemoryReading: model.MemoryReading{TotalKB: 1000, FreeKB: 100, AvailableKB: 400},
			UsagePercent:  60,
		},
		Disk: model.Disk{
			Status:       ready,
			DiskReading:  model.DiskReading{TotalBytes: 4096000, FreeBytes: 1024000},
			MountPath:    "/",
			UsagePercent: 75,
		},
		GPU: model.GPU{Status: ready, GPUReading: model.GPUReading{UtilizationPercent: 45, TemperatureCelsius: 62}},
		Load: model.Load{Status: model.Status{State: model.Unavailable, Reason: "disabled"}},
		Swap: model.Swap{Status: model.Status{State: model.Unavailable, Reason: "disabled"}},
	}
}

func TestWriteReady(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, readySnapshot()))
	assert.True(t, strings.HasSuffix(buf.String(), "}\n"))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, float64(1000), got["interval_ms"])

	cpu := got["cpu"].(map[string]any)
	assert.Equal(t, "ready", cpu["state"])
	assert.Equal(t, 20.0, cpu["usage_percent"])

	mem := got["memory"].(map[string]any)
	assert.Equal(t, 600.0, mem["used_kb"])

	disk := got["disk"].(map[string]any)
	assert.Equal(t, 3072000.0, disk["used_bytes"])
	assert.Equal(t, "/", disk["mount"])

	load := got["load"].(map[string]any)
	assert.Equal(t, "unavailable", load["state"])
	assert.Equal(t, "disabled", load["reason"])
	assert.Nil(t, load["load1"])
}

func TestPendingIsNull(t *testing.T) {
	doc := FromSnapshot(model.Zero())
	assert.Equal(t, "pending", doc.CPU.State)
	assert.Nil(t, doc.CPU.UsagePercent)
	assert.Nil(t, doc.Memory.UsedKB)
	assert.Nil(t, doc.Disk.UsagePercent)
	assert.Nil(t, doc.GPU.TemperatureCelsius)
}
