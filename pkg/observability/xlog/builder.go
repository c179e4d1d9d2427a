package xlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/omeyang/xthreadpool/pkg/observability/xrotate"
)

// Builder 日志配置构建器
//
// Builder 为一次性使用：调用 Build 后不要继续修改。
type Builder struct {
	output    io.Writer
	levelVar  *slog.LevelVar
	format    string
	addSource bool
	rotator   xrotate.Rotator
	onError   func(error)
	err       error
}

// New 创建配置构建器，默认输出到 stderr、Info 级别、text 格式。
func New() *Builder {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)
	return &Builder{
		output:   os.Stderr,
		levelVar: levelVar,
		format:   "text",
	}
}

// SetOutput 设置日志输出目标，nil 会被忽略。
func (b *Builder) SetOutput(w io.Writer) *Builder {
	if w != nil {
		b.output = w
	}
	return b
}

// SetLevel 设置日志级别
func (b *Builder) SetLevel(level Level) *Builder {
	b.levelVar.Set(level.Slog())
	return b
}

// SetLevelString 通过字符串设置日志级别
func (b *Builder) SetLevelString(s string) *Builder {
	if b.err != nil {
		return b
	}
	level, err := ParseLevel(s)
	if err != nil {
		b.err = err
		return b
	}
	return b.SetLevel(level)
}

// SetFormat 设置输出格式：text 或 json，空值视为 text。
func (b *Builder) SetFormat(format string) *Builder {
	if b.err != nil {
		return b
	}
	switch normalized := strings.ToLower(strings.TrimSpace(format)); normalized {
	case "":
		b.format = "text"
	case "text", "json":
		b.format = normalized
	default:
		b.err = fmt.Errorf("xlog: unknown format %q", format)
	}
	return b
}

// SetAddSource 是否在日志中添加源码位置
func (b *Builder) SetAddSource(enable bool) *Builder {
	b.addSource = enable
	return b
}

// SetRotation 将日志写入按大小轮转的文件。
// filename 为空时保持当前输出不变。
func (b *Builder) SetRotation(filename string, opts ...xrotate.Option) *Builder {
	if b.err != nil || filename == "" {
		return b
	}
	rotator, err := xrotate.NewLumberjack(filename, opts...)
	if err != nil {
		b.err = err
		return b
	}
	b.rotator = rotator
	b.output = rotator
	return b
}

// SetOnError 设置内部错误回调（Handler.Handle 失败时调用）。
// 回调在写日志的 goroutine 上同步执行，应保持轻量。
func (b *Builder) SetOnError(fn func(error)) *Builder {
	b.onError = fn
	return b
}

// Build 构建 Logger 实例
//
// 返回的 cleanup 用于关闭轮转文件，可重复调用。
func (b *Builder) Build() (LoggerWithLevel, func() error, error) {
	if b.err != nil {
		if b.rotator != nil {
			_ = b.rotator.Close()
		}
		return nil, nil, b.err
	}

	opts := &slog.HandlerOptions{
		Level:     b.levelVar,
		AddSource: b.addSource,
	}

	var handler slog.Handler
	if b.format == "json" {
		handler = slog.NewJSONHandler(b.output, opts)
	} else {
		handler = slog.NewTextHandler(b.output, opts)
	}

	logger := &xlogger{
		handler:        handler,
		levelVar:       b.levelVar,
		onError:        b.onError,
		errorCount:     new(atomic.Uint64),
		addSource:      b.addSource,
		inErrorHandler: new(atomic.Bool),
	}

	var once sync.Once
	rotator := b.rotator
	cleanup := func() error {
		var err error
		once.Do(func() {
			if rotator != nil {
				err = rotator.Close()
			}
		})
		return err
	}

	return logger, cleanup, nil
}
