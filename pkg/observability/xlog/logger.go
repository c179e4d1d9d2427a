package xlog

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"
)

var (
	_ Logger          = (*xlogger)(nil)
	_ LoggerWithLevel = (*xlogger)(nil)
)

// maxStackSize 调用栈缓冲区上限（64KB）
const maxStackSize = 64 * 1024

// xlogger Logger 接口的实现
type xlogger struct {
	handler        slog.Handler
	levelVar       *slog.LevelVar
	onError        func(error)
	errorCount     *atomic.Uint64 // 派生 logger 共享
	addSource      bool
	inErrorHandler *atomic.Bool // 防止 onError 递归，派生 logger 共享
}

// log 写入一条日志记录。
// skip=3: runtime.Callers -> log -> Debug/Info/... -> 业务代码
//
//go:noinline
func (l *xlogger) log(ctx context.Context, level slog.Level, msg string, attrs []slog.Attr, extra ...slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.handler.Enabled(ctx, level) {
		return
	}

	var pc uintptr
	if l.addSource {
		var pcs [1]uintptr
		runtime.Callers(3, pcs[:])
		pc = pcs[0]
	}

	r := slog.NewRecord(time.Now(), level, msg, pc)
	r.AddAttrs(attrs...)
	r.AddAttrs(extra...)

	if err := l.handler.Handle(ctx, r); err != nil {
		l.handleError(err)
	}
}

// handleError 记录内部错误并尽力通知 onError。
// 并发出错时部分错误会跳过回调，但都会计入 errorCount。
func (l *xlogger) handleError(err error) {
	l.errorCount.Add(1)
	if l.onError == nil {
		return
	}
	if !l.inErrorHandler.CompareAndSwap(false, true) {
		return
	}
	defer l.inErrorHandler.Store(false)
	defer func() {
		if recover() != nil {
			l.errorCount.Add(1)
		}
	}()
	l.onError(err)
}

// Debug 记录 Debug 级别日志
func (l *xlogger) Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelDebug, msg, attrs)
}

// Info 记录 Info 级别日志
func (l *xlogger) Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelInfo, msg, attrs)
}

// Warn 记录 Warn 级别日志
func (l *xlogger) Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelWarn, msg, attrs)
}

// Error 记录 Error 级别日志
func (l *xlogger) Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	l.log(ctx, slog.LevelError, msg, attrs)
}

// Stack 记录带完整堆栈的错误日志
func (l *xlogger) Stack(ctx context.Context, msg string, attrs ...slog.Attr) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.handler.Enabled(ctx, slog.LevelError) {
		return
	}
	l.log(ctx, slog.LevelError, msg, attrs, slog.String(KeyStack, captureStack()))
}

// captureStack 获取当前 goroutine 的调用栈，被截断时翻倍扩容直到 maxStackSize。
func captureStack() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	for n == len(buf) && len(buf) < maxStackSize {
		buf = make([]byte, min(len(buf)*2, maxStackSize))
		n = runtime.Stack(buf, false)
	}
	return string(buf[:n])
}

// With 返回带额外属性的派生 Logger
func (l *xlogger) With(attrs ...slog.Attr) Logger {
	if len(attrs) == 0 {
		return l
	}
	child := *l
	child.handler = l.handler.WithAttrs(attrs)
	return &child
}

// WithGroup 返回带分组的派生 Logger
func (l *xlogger) WithGroup(name string) Logger {
	if name == "" {
		return l
	}
	child := *l
	child.handler = l.handler.WithGroup(name)
	return &child
}

// SetLevel 动态设置日志级别
func (l *xlogger) SetLevel(level Level) {
	l.levelVar.Set(level.Slog())
}

// GetLevel 获取当前日志级别
func (l *xlogger) GetLevel() Level {
	return Level(l.levelVar.Level())
}

// Enabled 检查指定级别是否启用
func (l *xlogger) Enabled(ctx context.Context, level Level) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	return l.handler.Enabled(ctx, level.Slog())
}
