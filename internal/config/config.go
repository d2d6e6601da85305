package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries runtime options for hostpanel.
type Config struct {
	Interval   time.Duration `yaml:"interval"`
	MountPath  string        `yaml:"mount"`
	ProcRoot   string        `yaml:"proc_root"`
	EnableGPU  bool          `yaml:"gpu"`
	GPUTool    string        `yaml:"gpu_tool"`
	GPUTimeout time.Duration `yaml:"gpu_timeout"`
	EnableHost bool          `yaml:"host"`
	JSON       bool          `yaml:"json"`
	JSONStream bool          `yaml:"json_stream"`
	LogFile    string        `yaml:"log_file"`
	LogLevel   string        `yaml:"log_level"`

	// File is the YAML file the options were loaded from, if any.
	File string `yaml:"-"`
}

func Default() Config {
	return Config{
		Interval:   time.Second,
		MountPath:  "/",
		ProcRoot:   "/proc",
		EnableGPU:  true,
		GPUTool:    "nvidia-smi",
		GPUTimeout: 2 * time.Second,
		EnableHost: true,
		JSON:       false,
		JSONStream: false,
		LogFile:    filepath.Join(os.TempDir(), "hostpanel.log"),
		LogLevel:   "info",
	}
}

func newFlagSet(cfg *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("hostpanel", flag.ContinueOnError)
	fs.StringVar(&cfg.File, "config", cfg.File, "YAML config file")
	fs.DurationVar(&cfg.Interval, "interval", cfg.Interval, "refresh interval")
	fs.StringVar(&cfg.MountPath, "mount", cfg.MountPath, "mount point whose disk usage is shown")
	fs.StringVar(&cfg.ProcRoot, "proc", cfg.ProcRoot, "procfs root")
	fs.BoolVar(&cfg.EnableGPU, "gpu", cfg.EnableGPU, "enable GPU sampling")
	fs.StringVar(&cfg.GPUTool, "gpu-tool", cfg.GPUTool, "GPU query tool")
	fs.DurationVar(&cfg.GPUTimeout, "gpu-timeout", cfg.GPUTimeout, "per-call GPU query timeout (0 waits forever)")
	fs.BoolVar(&cfg.EnableHost, "host", cfg.EnableHost, "enable load average and swap sampling")
	fs.BoolVar(&cfg.JSON, "json", cfg.JSON, "output one-shot JSON and exit")
	fs.BoolVar(&cfg.JSONStream, "json-stream", cfg.JSONStream, "stream NDJSON until interrupted")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file (JSON modes log to stderr)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug|info|warn|error")
	return fs
}

// FromFlags resolves options in order: defaults, the -config file, flags,
// then environment overrides.
func FromFlags(args []string) (Config, error) {
	cfg := Default()
	if err := newFlagSet(&cfg).Parse(args); err != nil {
		return cfg, err
	}

	if cfg.File != "" {
		fileCfg, err := Load(cfg.File)
		if err != nil {
			return cfg, err
		}
		fileCfg.File = cfg.File
		// Flags win over the file.
		if err := newFlagSet(&fileCfg).Parse(args); err != nil {
			return cfg, err
		}
		cfg = fileCfg
	}

	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

// Load reads a YAML file on top of Default.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("HOSTPANEL_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Interval = parsed
		} else if parsed, err2 := time.ParseDuration(v + "s"); err2 == nil {
			cfg.Interval = parsed
		}
	}
	if v := os.Getenv("HOSTPANEL_GPU"); v == "0" {
		cfg.EnableGPU = false
	}
	if v := os.Getenv("HOSTPANEL_GPU_TOOL"); v != "" {
		cfg.GPUTool = v
	}
	if v := os.Getenv("HOSTPANEL_MOUNT"); v != "" {
		cfg.MountPath = v
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval must be positive, got %s", c.Interval))
	}
	if c.MountPath == "" {
		errs = append(errs, errors.New("mount path is empty"))
	}
	if c.GPUTimeout < 0 {
		errs = append(errs, fmt.Errorf("gpu timeout must not be negative, got %s", c.GPUTimeout))
	}
	if c.JSON && c.JSONStream {
		errs = append(errs, errors.New("-json and -json-stream are mutually exclusive"))
	}
	return errors.Join(errs...)
}
