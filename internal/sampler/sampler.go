package sampler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/hostpanel/internal/model"
	"github.com/Dicklesworthstone/hostpanel/internal/parser"
	"github.com/Dicklesworthstone/hostpanel/internal/source"
)

// DefaultMountPath is the filesystem whose usage is reported.
const DefaultMountPath = "/"

var errDisabled = errors.New("disabled")

// Sampler builds Snapshots from the kernel sources plus optional GPU and
// host figures. It carries CPU counters between passes, so callers must not
// run Sample concurrently on one instance.
type Sampler struct {
	Interval  time.Duration
	MountPath string

	src    source.Reader
	gpu    source.GPUSource
	host   source.HostSource
	logger *zap.Logger

	rate RateState
	// last failure reason per metric, to log only on change
	failing map[string]string
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithGPU enables the GPU slot. Without it the slot is always unavailable.
func WithGPU(g source.GPUSource) Option { return func(s *Sampler) { s.gpu = g } }

// WithHost enables the load and swap slots.
func WithHost(h source.HostSource) Option { return func(s *Sampler) { s.host = h } }

func WithLogger(l *zap.Logger) Option { return func(s *Sampler) { s.logger = l } }

func WithMountPath(p string) Option { return func(s *Sampler) { s.MountPath = p } }

func New(interval time.Duration, src source.Reader, opts ...Option) *Sampler {
	s := &Sampler{
		Interval:  interval,
		MountPath: DefaultMountPath,
		src:       src,
		logger:    zap.NewNop(),
		failing:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.MountPath == "" {
		s.MountPath = DefaultMountPath
	}
	return s
}

// Stream returns a channel that receives one snapshot immediately and then
// one per Interval until ctx is done. Passes never overlap: a slow pass
// delays the next tick rather than running alongside it.
func (s *Sampler) Stream(ctx context.Context) <-chan model.Snapshot {
	ch := make(chan model.Snapshot)
	go func() {
		defer close(ch)
		if !s.emit(ctx, ch) {
			return
		}
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if !s.emit(ctx, ch) {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func (s *Sampler) emit(ctx context.Context, ch chan<- model.Snapshot) bool {
	snap := s.Sample(ctx)
	select {
	case ch <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}

// Sample runs one pass. It never fails as a whole: each metric degrades to
// Pending or Unavailable on its own.
func (s *Sampler) Sample(ctx context.Context) model.Snapshot {
	return model.Snapshot{
		Timestamp: time.Now(),
		Interval:  s.Interval,
		CPU:       s.cpu(),
		Memory:    s.memory(),
		Disk:      s.disk(),
		GPU:       s.gpuReading(ctx),
		Load:      s.load(ctx),
		Swap:      s.swap(ctx),
	}
}

func (s *Sampler) cpu() model.CPU {
	pct, err := func() (float64, error) {
		line, err := s.src.ReadCPUStatLine()
		if err != nil {
			return 0, err
		}
		ticks, err := parser.CPUTicks(line)
		if err != nil {
			return 0, err
		}
		return s.rate.Update(ticks)
	}()
	return model.CPU{Status: s.status("cpu", err), UsagePercent: pct}
}

func (s *Sampler) memory() model.Memory {
	var out model.Memory
	text, err := s.src.ReadMemInfo()
	if err == nil {
		out.MemoryReading, err = parser.MemInfo(text)
	}
	if err == nil {
		out.UsagePercent, err = out.MemoryReading.UsagePercent()
	}
	if err != nil {
		out.MemoryReading = model.MemoryReading{}
	}
	out.Status = s.status("memory", err)
	return out
}

func (s *Sampler) disk() model.Disk {
	out := model.Disk{MountPath: s.MountPath}
	st, err := s.src.ReadFilesystemStats(s.MountPath)
	if err == nil {
		out.DiskReading = parser.DiskReading(st.Blocks, st.FragmentSize, st.AvailableBlocks)
		out.UsagePercent, err = out.DiskReading.UsagePercent()
	}
	out.Status = s.status("disk", err)
	return out
}

func (s *Sampler) gpuReading(ctx context.Context) model.GPU {
	if s.gpu == nil {
		return model.GPU{Status: model.StatusFor(errDisabled)}
	}
	var out model.GPU
	text, err := s.gpu.QueryGPU(ctx)
	if err == nil {
		out.GPUReading, err = parser.GPUCSV(text)
	}
	if err != nil {
		out.GPUReading = model.GPUReading{}
	}
	out.Status = s.status("gpu", err)
	return out
}

func (s *Sampler) load(ctx context.Context) model.Load {
	if s.host == nil {
		return model.Load{Status: model.StatusFor(errDisabled)}
	}
	var out model.Load
	var err error
	out.Load1, out.Load5, out.Load15, err = s.host.LoadAverage(ctx)
	out.Status = s.status("load", err)
	return out
}

func (s *Sampler) swap(ctx context.Context) model.Swap {
	if s.host == nil {
		return model.Swap{Status: model.StatusFor(errDisabled)}
	}
	var out model.Swap
	var err error
	out.UsedBytes, out.TotalBytes, err = s.host.Swap(ctx)
	out.Status = s.status("swap", err)
	return out
}

// status converts err into a slot status, logging transitions.
func (s *Sampler) status(metric string, err error) model.Status {
	st := model.StatusFor(err)
	prev, wasFailing := s.failing[metric]
	switch st.State {
	case model.Unavailable:
		if !wasFailing || prev != st.Reason {
			s.logger.Warn("metric unavailable", zap.String("metric", metric), zap.Error(err))
		}
		s.failing[metric] = st.Reason
	default:
		if wasFailing {
			s.logger.Info("metric recovered", zap.String("metric", metric))
			delete(s.failing, metric)
		}
	}
	return st
}
