package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Dicklesworthstone/hostpanel/internal/config"
	"github.com/Dicklesworthstone/hostpanel/internal/export"
	"github.com/Dicklesworthstone/hostpanel/internal/sampler"
	"github.com/Dicklesworthstone/hostpanel/internal/source"
	"github.com/Dicklesworthstone/hostpanel/internal/ui"
)

func main() {
	cfg, err := config.FromFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "hostpanel:", err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hostpanel: logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger, os.Stdout); err != nil {
		logger.Error("exiting", zap.Error(err))
		fmt.Fprintln(os.Stderr, "hostpanel:", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

// newLogger writes to the log file while the panel owns the terminal, and to
// stderr in the JSON modes.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = level
	loggerConfig.OutputPaths = []string{cfg.LogFile}
	if cfg.JSON || cfg.JSONStream {
		loggerConfig.OutputPaths = []string{"stderr"}
	}
	return loggerConfig.Build()
}

func newSampler(cfg config.Config, logger *zap.Logger) *sampler.Sampler {
	opts := []sampler.Option{
		sampler.WithLogger(logger),
		sampler.WithMountPath(cfg.MountPath),
	}
	if cfg.EnableGPU {
		opts = append(opts, sampler.WithGPU(source.NvidiaSMI{Path: cfg.GPUTool, Timeout: cfg.GPUTimeout}))
	}
	if cfg.EnableHost {
		opts = append(opts, sampler.WithHost(source.Gopsutil{}))
	}
	return sampler.New(cfg.Interval, source.NewProcFS(cfg.ProcRoot), opts...)
}

func run(cfg config.Config, logger *zap.Logger, out io.Writer) error {
	s := newSampler(cfg, logger)
	logger.Info("starting",
		zap.Duration("interval", cfg.Interval),
		zap.String("mount", cfg.MountPath),
		zap.Bool("gpu", cfg.EnableGPU),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case cfg.JSON:
		return oneShot(ctx, s, out)
	case cfg.JSONStream:
		for snap := range s.Stream(ctx) {
			if err := export.Write(out, snap); err != nil {
				return err
			}
		}
		return nil
	default:
		return ui.RunTUI(s)
	}
}

// oneShot takes two passes one interval apart so the CPU rate has a value.
func oneShot(ctx context.Context, s *sampler.Sampler, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stream := s.Stream(ctx)
	<-stream
	snap, ok := <-stream
	if !ok {
		return ctx.Err()
	}
	return export.Write(out, snap)
}
