package main

import (
	"io"

	"github.com/omeyang/xthreadpool/pkg/observability/xlog"
	"github.com/omeyang/xthreadpool/pkg/observability/xrotate"
)

// buildLogger 按配置构建日志器；File 非空时写入轮转文件，否则写 stderr。
func buildLogger(lc LogConfig, stderr io.Writer, runID string) (xlog.LoggerWithLevel, func() error, error) {
	logger, cleanup, err := xlog.New().
		SetOutput(stderr).
		SetLevelString(lc.Level).
		SetFormat(lc.Format).
		SetRotation(lc.File,
			xrotate.WithMaxSize(lc.MaxSizeMB),
			xrotate.WithMaxBackups(lc.MaxBackups),
			xrotate.WithMaxAge(lc.MaxAgeDays),
			xrotate.WithCompress(lc.Compress),
		).
		Build()
	if err != nil {
		return nil, nil, &usageError{err: err}
	}
	return withRunID(logger, runID), cleanup, nil
}

// runLogger 为日志附加 run_id，同时保留级别控制。
type runLogger struct {
	xlog.Logger
	xlog.Leveler
}

func withRunID(l xlog.LoggerWithLevel, runID string) xlog.LoggerWithLevel {
	return runLogger{Logger: l.With(xlog.RunID(runID)), Leveler: l}
}
