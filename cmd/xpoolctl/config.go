package main

import (
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xthreadpool/pkg/config/xconf"
)

const (
	flagConfig         = "config"
	flagLogLevel       = "log-level"
	flagLogFormat      = "log-format"
	flagLogFile        = "log-file"
	flagWorkers        = "workers"
	flagJobs           = "jobs"
	flagSubmitters     = "submitters"
	flagPanicEvery     = "panic-every"
	flagGoexitEvery    = "goexit-every"
	flagJobLatency     = "job-latency"
	flagRate           = "rate"
	flagReportInterval = "report-interval"
	flagDuration       = "duration"
	flagSpawnRetries   = "spawn-retries"
	flagSpawnFailEvery = "spawn-fail-every"
)

// Config xpoolctl 的完整配置，文件中未出现的字段保留默认值。
type Config struct {
	Log  LogConfig  `koanf:"log"`
	Pool PoolConfig `koanf:"pool"`
	Load LoadConfig `koanf:"load"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level      string `koanf:"level"`
	Format     string `koanf:"format"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
	Compress   bool   `koanf:"compress"`
}

// PoolConfig 线程池配置。
type PoolConfig struct {
	Name          string      `koanf:"name"`
	Workers       int         `koanf:"workers"`
	LockOSThread  bool        `koanf:"lock_os_thread"`
	LogPanicValue bool        `koanf:"log_panic_value"`
	Spawn         SpawnConfig `koanf:"spawn"`
}

// SpawnConfig worker 启动配置。Retries 为失败后的重试次数，FailEvery 为 N 时
// 构造完成后每 N 次启动注入一次失败，0 表示不注入。
type SpawnConfig struct {
	Retries    int           `koanf:"retries"`
	RetryDelay time.Duration `koanf:"retry_delay"`
	MaxDelay   time.Duration `koanf:"max_delay"`
	FailEvery  int           `koanf:"fail_every"`
}

// LoadConfig 负载配置。PanicEvery/GoexitEvery 为 N 时每 N 个任务注入一次异常，0 表示不注入。
type LoadConfig struct {
	Jobs           int           `koanf:"jobs"`
	Submitters     int           `koanf:"submitters"`
	PanicEvery     int           `koanf:"panic_every"`
	GoexitEvery    int           `koanf:"goexit_every"`
	JobLatency     time.Duration `koanf:"job_latency"`
	Rate           int           `koanf:"rate"`
	ReportInterval time.Duration `koanf:"report_interval"`
	Duration       time.Duration `koanf:"duration"`
}

func defaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  100,
			MaxBackups: 7,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Pool: PoolConfig{
			Name:         "xpoolctl",
			Workers:      4,
			LockOSThread: true,
			Spawn: SpawnConfig{
				RetryDelay: 10 * time.Millisecond,
				MaxDelay:   time.Second,
			},
		},
		Load: LoadConfig{
			Jobs:           1000,
			Submitters:     4,
			Rate:           100,
			ReportInterval: 5 * time.Second,
		},
	}
}

// loadConfig 读取配置文件（可选）并叠加命令行参数。
// 返回的 *xconf.Config 在未指定配置文件时为 nil。
func loadConfig(cmd *cli.Command) (Config, *xconf.Config, error) {
	cfg := defaultConfig()
	root := cmd.Root()

	var file *xconf.Config
	if path := root.String(flagConfig); path != "" {
		var err error
		file, err = xconf.Load(path)
		if err != nil {
			return Config{}, nil, &usageError{err: err}
		}
		if err := file.Unmarshal("", &cfg); err != nil {
			return Config{}, nil, &usageError{err: err}
		}
	}

	applyFlags(&cfg, root, cmd)
	if err := cfg.validate(); err != nil {
		return Config{}, nil, err
	}
	return cfg, file, nil
}

// applyFlags 用显式设置的命令行参数覆盖配置。
func applyFlags(cfg *Config, root, cmd *cli.Command) {
	if root.IsSet(flagLogLevel) {
		cfg.Log.Level = root.String(flagLogLevel)
	}
	if root.IsSet(flagLogFormat) {
		cfg.Log.Format = root.String(flagLogFormat)
	}
	if root.IsSet(flagLogFile) {
		cfg.Log.File = root.String(flagLogFile)
	}

	ints := map[string]*int{
		flagWorkers:        &cfg.Pool.Workers,
		flagJobs:           &cfg.Load.Jobs,
		flagSubmitters:     &cfg.Load.Submitters,
		flagPanicEvery:     &cfg.Load.PanicEvery,
		flagGoexitEvery:    &cfg.Load.GoexitEvery,
		flagRate:           &cfg.Load.Rate,
		flagSpawnRetries:   &cfg.Pool.Spawn.Retries,
		flagSpawnFailEvery: &cfg.Pool.Spawn.FailEvery,
	}
	for name, dst := range ints {
		if cmd.IsSet(name) {
			*dst = cmd.Int(name)
		}
	}

	durations := map[string]*time.Duration{
		flagJobLatency:     &cfg.Load.JobLatency,
		flagReportInterval: &cfg.Load.ReportInterval,
		flagDuration:       &cfg.Load.Duration,
	}
	for name, dst := range durations {
		if cmd.IsSet(name) {
			*dst = cmd.Duration(name)
		}
	}
}

func (c Config) validate() error {
	switch {
	case c.Pool.Workers < 1:
		return usagef("workers must be positive, got %d", c.Pool.Workers)
	case c.Pool.Spawn.Retries < 0 || c.Pool.Spawn.FailEvery < 0:
		return usagef("spawn-retries and spawn-fail-every must not be negative")
	case c.Pool.Spawn.RetryDelay < 0 || c.Pool.Spawn.MaxDelay < 0:
		return usagef("spawn retry delays must not be negative")
	case c.Load.Jobs < 0:
		return usagef("jobs must not be negative, got %d", c.Load.Jobs)
	case c.Load.Submitters < 1:
		return usagef("submitters must be positive, got %d", c.Load.Submitters)
	case c.Load.PanicEvery < 0 || c.Load.GoexitEvery < 0:
		return usagef("panic-every and goexit-every must not be negative")
	case c.Load.JobLatency < 0:
		return usagef("job-latency must not be negative, got %s", c.Load.JobLatency)
	case c.Load.Rate < 1:
		return usagef("rate must be positive, got %d", c.Load.Rate)
	case c.Load.ReportInterval <= 0:
		return usagef("report-interval must be positive, got %s", c.Load.ReportInterval)
	case c.Load.Duration < 0:
		return usagef("duration must not be negative, got %s", c.Load.Duration)
	}
	return nil
}
