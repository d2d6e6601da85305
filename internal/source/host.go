package source

import (
	"context"

	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/Dicklesworthstone/hostpanel/internal/model"
)

// HostSource supplies the supplemental load and swap figures.
type HostSource interface {
	LoadAverage(ctx context.Context) (load1, load5, load15 float64, err error)
	Swap(ctx context.Context) (used, total uint64, err error)
}

// Gopsutil is the HostSource backed by gopsutil.
type Gopsutil struct{}

var _ HostSource = Gopsutil{}

func (Gopsutil) LoadAverage(ctx context.Context) (float64, float64, float64, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return 0, 0, 0, model.Unavailablef(err, "load average")
	}
	return avg.Load1, avg.Load5, avg.Load15, nil
}

func (Gopsutil) Swap(ctx context.Context) (uint64, uint64, error) {
	sw, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, model.Unavailablef(err, "swap")
	}
	return sw.Used, sw.Total, nil
}
