// Package parser turns raw procfs text, statfs figures and GPU tool output
// into typed readings. Every function is pure.
package parser

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/Dicklesworthstone/hostpanel/internal/model"
)

// cpuFields is user, nice, system, idle, iowait, irq, softirq.
const cpuFields = 7

// CPUTicks parses the aggregate line of /proc/stat, e.g.
// "cpu  4705 356 584 3699 23 23 0 0 0 0". Fields past softirq are ignored.
func CPUTicks(line string) (model.CPUTicks, error) {
	fields := strings.Fields(line)
	if len(fields) < 1+cpuFields {
		return model.CPUTicks{}, model.Parsef("cpu line has %d fields, want at least %d", len(fields), 1+cpuFields)
	}
	var v [cpuFields]uint64
	for i := range v {
		n, err := strconv.ParseUint(fields[i+1], 10, 64)
		if err != nil {
			return model.CPUTicks{}, model.Parsef("cpu field %d %q is not a counter", i+1, fields[i+1])
		}
		v[i] = n
	}
	return model.CPUTicks{
		User:    v[0],
		Nice:    v[1],
		System:  v[2],
		Idle:    v[3],
		Iowait:  v[4],
		IRQ:     v[5],
		SoftIRQ: v[6],
	}, nil
}

// MemInfo reads MemTotal, MemFree and MemAvailable out of /proc/meminfo.
// Other keys are skipped and a missing key leaves its field at zero.
func MemInfo(text string) (model.MemoryReading, error) {
	var m model.MemoryReading
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		var dst *uint64
		switch fields[0] {
		case "MemTotal:":
			dst = &m.TotalKB
		case "MemFree:":
			dst = &m.FreeKB
		case "MemAvailable:":
			dst = &m.AvailableKB
		default:
			continue
		}
		n, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return model.MemoryReading{}, model.Parsef("meminfo %s value %q is not a number", strings.TrimSuffix(fields[0], ":"), fields[1])
		}
		*dst = n
	}
	return m, nil
}

// DiskReading scales statfs block counts by the fragment size. A zero total
// is not rejected here; DiskReading.UsagePercent reports it.
func DiskReading(blocks, fragSize, availBlocks uint64) model.DiskReading {
	return model.DiskReading{
		TotalBytes: blocks * fragSize,
		FreeBytes:  availBlocks * fragSize,
	}
}

// GPUCSV parses the output of
// "nvidia-smi --query-gpu=utilization.gpu,temperature.gpu --format=csv":
// a header line followed by a data line such as "45 %, 62".
func GPUCSV(text string) (model.GPUReading, error) {
	lines := strings.Split(strings.TrimRight(text, "\r\n"), "\n")
	if len(lines) < 2 {
		return model.GPUReading{}, model.Parsef("gpu output has no data line")
	}
	parts := strings.Split(lines[1], ",")
	if len(parts) != 2 {
		return model.GPUReading{}, model.Parsef("gpu data line %q has %d fields, want 2", lines[1], len(parts))
	}
	util := strings.TrimSuffix(stripSpace(parts[0]), "%")
	temp := stripSpace(parts[1])

	u, err := decimal(util)
	if err != nil {
		return model.GPUReading{}, model.Parsef("gpu utilization %q", util)
	}
	c, err := decimal(temp)
	if err != nil {
		return model.GPUReading{}, model.Parsef("gpu temperature %q", temp)
	}
	return model.GPUReading{UtilizationPercent: u, TemperatureCelsius: c}, nil
}

// decimal accepts finite base-10 numbers only; ParseFloat alone would also
// take NaN, Inf and hex floats.
func decimal(s string) (float64, error) {
	if strings.ContainsAny(s, "xX") {
		return 0, strconv.ErrSyntax
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, strconv.ErrRange
	}
	return f, nil
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
