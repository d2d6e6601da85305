//go:build !linux

package source

import (
	"github.com/shirou/gopsutil/v3/disk"

	"github.com/Dicklesworthstone/hostpanel/internal/model"
)

// gopsutil already multiplies by the block size, so report byte-sized blocks.
func statfs(path string) (FilesystemStats, error) {
	u, err := disk.Usage(path)
	if err != nil {
		return FilesystemStats{}, model.Unavailablef(err, "statfs %s", path)
	}
	return FilesystemStats{
		Blocks:          u.Total,
		FragmentSize:    1,
		AvailableBlocks: u.Free,
	}, nil
}
