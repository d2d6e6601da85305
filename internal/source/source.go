// Package source reads raw, uninterpreted metric inputs from the host:
// procfs text, statfs figures, GPU tool output and gopsutil host figures.
package source

import (
	"bufio"
	"context"
	"os"
	"path/filepath"

	"github.com/Dicklesworthstone/hostpanel/internal/model"
)

// DefaultProcRoot is where the kernel exposes procfs.
const DefaultProcRoot = "/proc"

// FilesystemStats is the subset of statfs the disk metric needs.
type FilesystemStats struct {
	Blocks          uint64
	FragmentSize    uint64
	AvailableBlocks uint64 // available to unprivileged users
}

// Reader exposes the kernel sources. Each call fails independently.
type Reader interface {
	ReadCPUStatLine() (string, error)
	ReadMemInfo() (string, error)
	ReadFilesystemStats(path string) (FilesystemStats, error)
}

// ProcFS reads from a procfs mount. Root defaults to /proc; tests point it
// at a temporary directory.
type ProcFS struct {
	Root string
}

var _ Reader = ProcFS{}

func NewProcFS(root string) ProcFS {
	if root == "" {
		root = DefaultProcRoot
	}
	return ProcFS{Root: root}
}

func (p ProcFS) path(name string) string {
	root := p.Root
	if root == "" {
		root = DefaultProcRoot
	}
	return filepath.Join(root, name)
}

// ReadCPUStatLine returns the first line of stat, the all-CPU aggregate.
func (p ProcFS) ReadCPUStatLine() (string, error) {
	path := p.path("stat")
	f, err := os.Open(path)
	if err != nil {
		return "", model.Unavailablef(err, "open %s", path)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", model.Unavailablef(err, "read %s", path)
		}
		return "", model.Parsef("%s is empty", path)
	}
	return sc.Text(), nil
}

// ReadMemInfo returns meminfo verbatim.
func (p ProcFS) ReadMemInfo() (string, error) {
	path := p.path("meminfo")
	b, err := os.ReadFile(path)
	if err != nil {
		return "", model.Unavailablef(err, "read %s", path)
	}
	return string(b), nil
}

// ReadFilesystemStats runs statfs on path.
func (p ProcFS) ReadFilesystemStats(path string) (FilesystemStats, error) {
	return statfs(path)
}

// GPUSource yields the raw CSV printed by a GPU query tool. Implementations
// should honour ctx; the sampler adds no timeout of its own.
type GPUSource interface {
	QueryGPU(ctx context.Context) (string, error)
}

