// Package export renders snapshots as JSON for the one-shot and stream modes.
package export

import (
	"encoding/json"
	"io"
	"time"

	"github.com/Dicklesworthstone/hostpanel/internal/model"
)

// Slot fields are nil unless the metric is ready.
type Slot struct {
	State  string `json:"state"`
	Reason string `json:"reason,omitempty"`
}

type CPU struct {
	Slot
	UsagePercent *float64 `json:"usage_percent"`
}

type Memory struct {
	Slot
	TotalKB      *uint64  `json:"total_kb"`
	FreeKB       *uint64  `json:"free_kb"`
	AvailableKB  *uint64  `json:"available_kb"`
	UsedKB       *uint64  `json:"used_kb"`
	UsagePercent *float64 `json:"usage_percent"`
}

type Disk struct {
	Slot
	Mount        string   `json:"mount"`
	TotalBytes   *uint64  `json:"total_bytes"`
	FreeBytes    *uint64  `json:"free_bytes"`
	UsedBytes    *uint64  `json:"used_bytes"`
	UsagePercent *float64 `json:"usage_percent"`
}

type GPU struct {
	Slot
	UtilizationPercent *float64 `json:"utilization_percent"`
	TemperatureCelsius *float64 `json:"temperature_celsius"`
}

type Load struct {
	Slot
	Load1  *float64 `json:"load1"`
	Load5  *float64 `json:"load5"`
	Load15 *float64 `json:"load15"`
}

type Swap struct {
	Slot
	UsedBytes  *uint64 `json:"used_bytes"`
	TotalBytes *uint64 `json:"total_bytes"`
}

// Document is the JSON shape of one snapshot.
type Document struct {
	Timestamp  time.Time `json:"timestamp"`
	IntervalMS int64     `json:"interval_ms"`
	CPU        CPU       `json:"cpu"`
	Memory     Memory    `json:"memory"`
	Disk       Disk      `json:"disk"`
	GPU        GPU       `json:"gpu"`
	Load       Load      `json:"load"`
	Swap       Swap      `json:"swap"`
}

func ptr[T any](v T, ok bool) *T {
	if !ok {
		return nil
	}
	return &v
}

func slot(s model.Status) Slot { return Slot{State: s.State.String(), Reason: s.Reason} }

// FromSnapshot converts s, turning every non-ready value into null.
func FromSnapshot(s model.Snapshot) Document {
	cpuOK := s.CPU.Ready()
	memOK := s.Memory.Ready()
	diskOK := s.Disk.Ready()
	gpuOK := s.GPU.Ready()
	loadOK := s.Load.Ready()
	swapOK := s.Swap.Ready()
	return Document{
		Timestamp:  s.Timestamp,
		IntervalMS: s.Interval.Milliseconds(),
		CPU: CPU{
			Slot:         slot(s.CPU.Status),
			UsagePercent: ptr(s.CPU.UsagePercent, cpuOK),
		},
		Memory: Memory{
			Slot:         slot(s.Memory.Status),
			TotalKB:      ptr(s.Memory.TotalKB, memOK),
			FreeKB:       ptr(s.Memory.FreeKB, memOK),
			AvailableKB:  ptr(s.Memory.AvailableKB, memOK),
			UsedKB:       ptr(s.Memory.UsedKB(), memOK),
			UsagePercent: ptr(s.Memory.UsagePercent, memOK),
		},
		Disk: Disk{
			Slot:         slot(s.Disk.Status),
			Mount:        s.Disk.MountPath,
			TotalBytes:   ptr(s.Disk.TotalBytes, diskOK),
			FreeBytes:    ptr(s.Disk.FreeBytes, diskOK),
			UsedBytes:    ptr(s.Disk.UsedBytes(), diskOK),
			UsagePercent: ptr(s.Disk.UsagePercent, diskOK),
		},
		GPU: GPU{
			Slot:               slot(s.GPU.Status),
			UtilizationPercent: ptr(s.GPU.UtilizationPercent, gpuOK),
			TemperatureCelsius: ptr(s.GPU.TemperatureCelsius, gpuOK),
		},
		Load: Load{
			Slot:   slot(s.Load.Status),
			Load1:  ptr(s.Load.Load1, loadOK),
			Load5:  ptr(s.Load.Load5, loadOK),
			Load15: ptr(s.Load.Load15, loadOK),
		},
		Swap: Swap{
			Slot:       slot(s.Swap.Status),
			UsedBytes:  ptr(s.Swap.UsedBytes, swapOK),
			TotalBytes: ptr(s.Swap.TotalBytes, swapOK),
		},
	}
}

// Write encodes one snapshot as a single JSON line.
func Write(w io.Writer, s model.Snapshot) error {
	return json.NewEncoder(w).Encode(FromSnapshot(s))
}
