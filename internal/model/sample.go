package model

import "time"

// State is the tri-state carried by every snapshot slot.
type State uint8

const (
	// Pending means the metric needs more samples before it has a value.
	Pending State = iota
	// Ready means the slot holds a value computed this pass.
	Ready
	// Unavailable means the metric could not be computed this pass.
	Unavailable
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Unavailable:
		return "unavailable"
	}
	return "unknown"
}

// Status is embedded in each slot; Reason and Err are set whenever State is
// not Ready.
type Status struct {
	State  State
	Reason string
	Err    error
}

func (s Status) Ready() bool { return s.State == Ready }

// CPUTicks are cumulative /proc/stat counters since boot.
type CPUTicks struct {
	User    uint64
	Nice    uint64
	System  uint64
	Idle    uint64
	Iowait  uint64
	IRQ     uint64
	SoftIRQ uint64
}

// Total sums every counter.
func (t CPUTicks) Total() uint64 {
	return t.User + t.Nice + t.System + t.Idle + t.Iowait + t.IRQ + t.SoftIRQ
}

// IdleTotal is idle plus iowait.
func (t CPUTicks) IdleTotal() uint64 { return t.Idle + t.Iowait }

// CPU is the aggregate utilization over the interval since the previous pass.
type CPU struct {
	Status
	UsagePercent float64 // 0-100
}

// MemoryReading holds the meminfo figures in kilobytes. AvailableKB stays
// zero when the kernel does not report MemAvailable.
type MemoryReading struct {
	TotalKB     uint64
	FreeKB      uint64
	AvailableKB uint64
}

// UsedKB is total minus available.
func (m MemoryReading) UsedKB() uint64 { return m.TotalKB - m.AvailableKB }

// UsagePercent fails with ErrDegenerate for an empty or inconsistent reading.
func (m MemoryReading) UsagePercent() (float64, error) {
	if m.TotalKB == 0 {
		return 0, Degenerate("memory total is zero")
	}
	if m.AvailableKB > m.TotalKB {
		return 0, Degenerate("memory available exceeds total")
	}
	return 100 * float64(m.UsedKB()) / float64(m.TotalKB), nil
}

// Memory is the snapshot slot for RAM.
type Memory struct {
	Status
	MemoryReading
	UsagePercent float64
}

// DiskReading covers the filesystem holding the configured mount point.
type DiskReading struct {
	TotalBytes uint64
	FreeBytes  uint64
}

// UsedBytes is total minus the space available to unprivileged users.
func (d DiskReading) UsedBytes() uint64 { return d.TotalBytes - d.FreeBytes }

// UsagePercent fails with ErrDegenerate when the filesystem reports no blocks.
func (d DiskReading) UsagePercent() (float64, error) {
	if d.TotalBytes == 0 {
		return 0, Degenerate("disk total is zero")
	}
	return 100 * float64(d.UsedBytes()) / float64(d.TotalBytes), nil
}

// Disk is the snapshot slot for the mount point.
type Disk struct {
	Status
	DiskReading
	MountPath    string
	UsagePercent float64
}

// GPUReading is device 0 as reported by the query tool.
type GPUReading struct {
	UtilizationPercent float64
	TemperatureCelsius float64
}

// GPU is the snapshot slot for the first GPU.
type GPU struct {
	Status
	GPUReading
}

// Load is the run-queue average.
type Load struct {
	Status
	Load1  float64
	Load5  float64
	Load15 float64
}

// Swap usage in bytes.
type Swap struct {
	Status
	UsedBytes  uint64
	TotalBytes uint64
}

// Snapshot is everything one sampling pass produced. It is never mutated
// after Sample returns it.
type Snapshot struct {
	Timestamp time.Time
	Interval  time.Duration
	CPU       CPU
	Memory    Memory
	Disk      Disk
	GPU       GPU
	Load      Load
	Swap      Swap
}

// Zero returns a snapshot with every slot pending, for rendering before the
// first pass arrives.
func Zero() Snapshot { return Snapshot{Timestamp: time.Now()} }
