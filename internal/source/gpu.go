package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"time"

	"github.com/Dicklesworthstone/hostpanel/internal/model"
)

// DefaultGPUTool is the NVIDIA query binary looked up on PATH.
const DefaultGPUTool = "nvidia-smi"

// GPUQueryArgs asks for device 0 utilization and temperature as CSV with a header.
var GPUQueryArgs = []string{
	"--query-gpu=utilization.gpu,temperature.gpu",
	"--format=csv",
	"-i", "0",
}

// waitDelay bounds how long Run keeps waiting on stdout after the tool was
// killed or exited; a wrapper's grandchild can hold the pipe open.
const waitDelay = 250 * time.Millisecond

// NvidiaSMI runs the query tool once per call and returns its stdout.
type NvidiaSMI struct {
	Path string
	// Timeout bounds a single invocation; zero waits for the tool forever.
	Timeout time.Duration
}

var _ GPUSource = NvidiaSMI{}

func (n NvidiaSMI) QueryGPU(ctx context.Context) (string, error) {
	tool := n.Path
	if tool == "" {
		tool = DefaultGPUTool
	}
	if n.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.Timeout)
		defer cancel()
	}

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, tool, GPUQueryArgs...)
	cmd.Stdout = &stdout
	cmd.WaitDelay = waitDelay
	err := cmd.Run()
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %s: %w", model.ErrToolMissing, tool, err)
	case ctx.Err() != nil:
		return "", model.Unavailablef(ctx.Err(), "%s", tool)
	case errors.Is(err, exec.ErrWaitDelay):
		// The tool itself exited cleanly; only a leftover child held stdout.
	case err != nil:
		return "", model.Unavailablef(err, "run %s", tool)
	}
	return stdout.String(), nil
}
