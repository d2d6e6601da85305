//go:build linux

package source

import (
	"golang.org/x/sys/unix"

	"github.com/Dicklesworthstone/hostpanel/internal/model"
)

func statfs(path string) (FilesystemStats, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return FilesystemStats{}, model.Unavailablef(err, "statfs %s", path)
	}
	// Kernels that predate f_frsize leave it zero; statvfs(3) uses f_bsize then.
	frag := uint64(st.Frsize)
	if frag == 0 {
		frag = uint64(st.Bsize)
	}
	return FilesystemStats{
		Blocks:          uint64(st.Blocks),
		FragmentSize:    frag,
		AvailableBlocks: uint64(st.Bavail),
	}, nil
}
