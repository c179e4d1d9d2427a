package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/xthreadpool/pkg/config/xconf"
	"github.com/omeyang/xthreadpool/pkg/lifecycle/xrun"
	"github.com/omeyang/xthreadpool/pkg/observability/xlog"
	"github.com/omeyang/xthreadpool/pkg/util/xpool"
)

// drainTimeout serve 退出时等待队列排空的上限
const drainTimeout = 30 * time.Second

// errServeDone serve 达到 --duration 后正常结束
var errServeDone = errors.New("serve duration elapsed")

func poolFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{Name: flagWorkers, Aliases: []string{"w"}, Usage: "worker 数量", Value: 4},
		&cli.IntFlag{Name: flagPanicEvery, Usage: "每 N 个任务注入一次 panic（0 关闭）"},
		&cli.IntFlag{Name: flagGoexitEvery, Usage: "每 N 个任务注入一次 runtime.Goexit（0 关闭）"},
		&cli.DurationFlag{Name: flagJobLatency, Usage: "正常任务的执行耗时"},
		&cli.IntFlag{Name: flagSpawnRetries, Usage: "worker 启动失败后的重试次数"},
		&cli.IntFlag{Name: flagSpawnFailEvery, Usage: "构造完成后每 N 次 worker 启动注入一次失败（0 关闭）"},
	}
}

func createRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "提交固定数量的任务，排空后输出统计；有任务丢失时退出码为 1",
		Flags: append(poolFlags(),
			&cli.IntFlag{Name: flagJobs, Aliases: []string{"n"}, Usage: "任务总数", Value: 1000},
			&cli.IntFlag{Name: flagSubmitters, Usage: "并发提交者数量", Value: 4},
		),
		Action: cmdRun,
	}
}

func createServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "按固定速率持续提交任务，收到信号后排空退出",
		Flags: append(poolFlags(),
			&cli.IntFlag{Name: flagRate, Usage: "每秒提交的任务数", Value: 100},
			&cli.DurationFlag{Name: flagReportInterval, Usage: "统计输出周期", Value: 5 * time.Second},
			&cli.DurationFlag{Name: flagDuration, Usage: "运行时长，0 表示直到收到信号"},
		),
		Action: cmdServe,
	}
}

// env 一次命令执行所需的依赖。
type env struct {
	cfg    Config
	file   *xconf.Config
	logger xlog.LoggerWithLevel
	tel    *telemetry
	runID  string
	out    io.Writer

	closeLogger func() error
}

func setup(cmd *cli.Command) (*env, error) {
	cfg, file, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	logger, closeLogger, err := buildLogger(cfg.Log, cmd.Root().ErrWriter, runID)
	if err != nil {
		return nil, err
	}
	tel, err := newTelemetry(runID)
	if err != nil {
		_ = closeLogger()
		return nil, err
	}

	return &env{
		cfg:         cfg,
		file:        file,
		logger:      logger,
		tel:         tel,
		runID:       runID,
		out:         cmd.Root().Writer,
		closeLogger: closeLogger,
	}, nil
}

func (e *env) close(ctx context.Context) {
	if err := e.tel.shutdown(ctx); err != nil {
		e.logger.Warn(ctx, "shutdown telemetry failed", xlog.Err(err))
	}
	_ = e.closeLogger()
}

func (e *env) newPool() (*xpool.Pool, error) {
	opts := []xpool.Option{
		xpool.WithName(e.cfg.Pool.Name),
		xpool.WithLogger(e.logger),
		xpool.WithObserver(e.tel.observer),
		xpool.WithLockOSThread(e.cfg.Pool.LockOSThread),
	}
	if e.cfg.Pool.LogPanicValue {
		opts = append(opts, xpool.WithLogPanicValue())
	}
	spawner, err := newSpawner(e.cfg.Pool)
	if err != nil {
		return nil, err
	}
	if spawner != nil {
		opts = append(opts, xpool.WithSpawner(spawner))
	}
	p, err := xpool.New(e.cfg.Pool.Workers, opts...)
	if err != nil {
		if errors.Is(err, xpool.ErrInvalidWorkers) {
			return nil, &usageError{err: err}
		}
		return nil, err
	}
	return p, nil
}

func cmdRun(ctx context.Context, cmd *cli.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close(ctx)

	p, err := e.newPool()
	if err != nil {
		return err
	}
	lc := e.cfg.Load
	e.logger.Info(ctx, "run started",
		slog.Int("workers", p.Size()),
		slog.Int("jobs", lc.Jobs),
		slog.Int("submitters", lc.Submitters),
	)

	gen := newLoadGen(lc)
	start := time.Now()
	submitErr := gen.submitAll(ctx, p, lc.Jobs, lc.Submitters, e.logger)
	if err := p.Shutdown(ctx); err != nil {
		return err
	}
	elapsed := time.Since(start)

	e.report(ctx, p.Stats(), gen, elapsed)
	if submitErr != nil {
		return fmt.Errorf("submit: %w", submitErr)
	}
	if lost := gen.lost(); lost > 0 {
		return &jobLossError{expected: gen.expected.Load(), executed: gen.executed.Load()}
	}
	return nil
}

func cmdServe(ctx context.Context, cmd *cli.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.close(ctx)

	p, err := e.newPool()
	if err != nil {
		return err
	}
	lc := e.cfg.Load
	gen := newLoadGen(lc)
	interval, batch := pace(lc.Rate)

	services := []func(ctx context.Context) error{
		xrun.Ticker(interval, false, func(context.Context) error {
			for range batch {
				if err := gen.submit(p); err != nil {
					return fmt.Errorf("submit: %w", err)
				}
			}
			return nil
		}),
		xrun.Ticker(lc.ReportInterval, false, func(ctx context.Context) error {
			e.logStats(ctx, p.Stats(), gen)
			return nil
		}),
	}
	if e.file != nil {
		w, err := xconf.Watch(e.file, e.onConfigChange)
		if err != nil {
			_ = p.Close()
			return err
		}
		services = append(services, w.Run)
	}
	if lc.Duration > 0 {
		services = append(services, stopAfter(lc.Duration))
	}

	e.logger.Info(ctx, "serve started",
		slog.Int("workers", p.Size()),
		slog.Int("rate", lc.Rate),
		slog.Bool("hot_reload", e.file != nil),
	)
	start := time.Now()
	runErr := xrun.RunWithOptions(ctx, []xrun.Option{
		xrun.WithName(serviceName),
		xrun.WithLogger(e.logger),
	}, services...)

	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), drainTimeout)
	defer cancel()
	if err := p.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("drain pool: %w", err)
	}
	e.report(ctx, p.Stats(), gen, time.Since(start))

	if runErr == nil || errors.Is(runErr, xrun.ErrSignal) || errors.Is(runErr, errServeDone) {
		return nil
	}
	return runErr
}

// stopAfter 在 d 之后以 errServeDone 结束所在的 Group。
func stopAfter(d time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return errServeDone
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// onConfigChange 热更新日志级别，其余配置项需重启生效。
func (e *env) onConfigChange(cfg *xconf.Config, err error) {
	ctx := context.Background()
	if err != nil {
		e.logger.Warn(ctx, "config reload failed", xlog.Err(err))
		return
	}
	raw := cfg.Client().String("log.level")
	if raw == "" {
		return
	}
	level, err := xlog.ParseLevel(raw)
	if err != nil {
		e.logger.Warn(ctx, "ignore invalid log level", slog.String("level", raw), xlog.Err(err))
		return
	}
	if level != e.logger.GetLevel() {
		e.logger.SetLevel(level)
		e.logger.Info(ctx, "log level updated", slog.String("level", level.String()))
	}
}

func (e *env) logStats(ctx context.Context, st xpool.Stats, gen *loadGen) {
	e.logger.Info(ctx, "pool stats",
		slog.Int("workers", st.Workers),
		slog.Int("busy", st.Busy),
		slog.Int("pending", st.Pending),
		slog.Uint64("completed", st.Completed),
		slog.Uint64("panicked", st.Panicked),
		slog.Uint64("respawned", st.Respawned),
		slog.Uint64("respawn_failures", st.RespawnFailures),
		slog.Int64("rejected", gen.rejected.Load()),
	)
}

// report 向 stdout 输出最终统计。
func (e *env) report(ctx context.Context, st xpool.Stats, gen *loadGen, elapsed time.Duration) {
	fmt.Fprintf(e.out, "run_id=%s elapsed=%s\n", e.runID, elapsed.Round(time.Millisecond))
	fmt.Fprintf(e.out, "pool: submitted=%d completed=%d panicked=%d respawned=%d respawn_failures=%d\n",
		st.Submitted, st.Completed, st.Panicked, st.Respawned, st.RespawnFailures)
	fmt.Fprintf(e.out, "load: expected=%d executed=%d injected=%d rejected=%d lost=%d\n",
		gen.expected.Load(), gen.executed.Load(), gen.injected.Load(), gen.rejected.Load(), gen.lost())

	counts, err := e.tel.operationCounts(ctx)
	if err != nil {
		e.logger.Warn(ctx, "read metrics failed", xlog.Err(err))
		return
	}
	fmt.Fprintf(e.out, "metrics: %s\n", formatCounts(counts))
}
