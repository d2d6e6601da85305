package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dicklesworthstone/hostpanel/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	proc := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(proc, "stat"), []byte("cpu  100 0 100 700 100 0 0 0 0 0\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(proc, "meminfo"), []byte("MemTotal: 1000 kB\nMemFree: 100 kB\nMemAvailable: 400 kB\n"), 0o644))

	cfg := config.Default()
	cfg.Interval = 10 * time.Millisecond
	cfg.ProcRoot = proc
	cfg.MountPath = t.TempDir()
	cfg.EnableGPU = false
	cfg.EnableHost = false
	cfg.JSON = true
	return cfg
}

func TestRunOneShotJSON(t *testing.T) {
	cfg := testConfig(t)
	var out bytes.Buffer
	require.NoError(t, run(cfg, zap.NewNop(), &out))

	var got struct {
		CPU    struct{ State string } `json:"cpu"`
		Memory struct {
			State        string   `json:"state"`
			UsagePercent *float64 `json:"usage_percent"`
		} `json:"memory"`
		Disk struct{ State string } `json:"disk"`
		GPU  struct {
			State  string `json:"state"`
			Reason string `json:"reason"`
		} `json:"gpu"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))

	// The counters never move in the fake procfs, so the rate is degenerate.
	assert.Equal(t, "unavailable", got.CPU.State)
	assert.Equal(t, "ready", got.Memory.State)
	require.NotNil(t, got.Memory.UsagePercent)
	assert.InDelta(t, 60.0, *got.Memory.UsagePercent, 1e-9)
	assert.Equal(t, "ready", got.Disk.State)
	assert.Equal(t, "unavailable", got.GPU.State)
	assert.Equal(t, "disabled", got.GPU.Reason)
}

func TestNewSamplerWiring(t *testing.T) {
	cfg := testConfig(t)
	s := newSampler(cfg, zap.NewNop())
	assert.Equal(t, cfg.MountPath, s.MountPath)
	assert.Equal(t, cfg.Interval, s.Interval)
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "hostpanel.log")
	logger, err := newLogger(cfg)
	require.NoError(t, err)
	logger.Info("hello")
	_ = logger.Sync()

	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"hello"`)

	cfg.LogLevel = "loud"
	_, err = newLogger(cfg)
	require.Error(t, err)
}
