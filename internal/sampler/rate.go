package sampler

import (
	"fmt"

	"github.com/Dicklesworthstone/hostpanel/internal/model"
)

// RateState keeps the previous pass's CPU counters. The zero value is a
// fresh baseline.
//
// Counter wraparound is not detected: a wrapped counter yields a huge
// unsigned delta and a meaningless percentage for that one pass.
type RateState struct {
	prevIdle  uint64
	prevTotal uint64
}

// Update returns CPU usage since the previous call and stores cur as the new
// baseline whatever the outcome. It fails with ErrNotReady on the first call
// and ErrDegenerate when no ticks elapsed.
func (r *RateState) Update(cur model.CPUTicks) (float64, error) {
	total, idle := cur.Total(), cur.IdleTotal()
	prevTotal, prevIdle := r.prevTotal, r.prevIdle
	r.prevTotal, r.prevIdle = total, idle

	if prevTotal == 0 {
		return 0, fmt.Errorf("cpu: %w", model.ErrNotReady)
	}
	totalDiff := total - prevTotal
	idleDiff := idle - prevIdle
	if totalDiff == 0 {
		return 0, model.Degenerate("no cpu ticks elapsed since last sample")
	}
	return 100 * (float64(totalDiff) - float64(idleDiff)) / float64(totalDiff), nil
}

// Reset forgets the baseline.
func (r *RateState) Reset() { *r = RateState{} }
