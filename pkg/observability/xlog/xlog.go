package xlog

import (
	"context"
	"log/slog"
)

// Logger 日志接口
//
// 所有方法都需要 context.Context 参数；属性只接受 slog.Attr，避免隐式 key-value 转换。
type Logger interface {
	Debug(ctx context.Context, msg string, attrs ...slog.Attr)
	Info(ctx context.Context, msg string, attrs ...slog.Attr)
	Warn(ctx context.Context, msg string, attrs ...slog.Attr)
	Error(ctx context.Context, msg string, attrs ...slog.Attr)

	// Stack 记录带当前 goroutine 调用栈的错误日志。
	// 在 recover 所在的 defer 中调用时，调用栈包含 panic 发生位置。
	Stack(ctx context.Context, msg string, attrs ...slog.Attr)

	// With 返回带额外属性的派生 Logger
	With(attrs ...slog.Attr) Logger

	// WithGroup 返回带分组的派生 Logger
	WithGroup(name string) Logger
}

// Leveler 级别控制接口
type Leveler interface {
	SetLevel(level Level)
	GetLevel() Level
	Enabled(ctx context.Context, level Level) bool
}

// LoggerWithLevel 组合接口：Logger + Leveler
//
// Build() 返回此接口，便于在配置热更新时直接调整级别。
type LoggerWithLevel interface {
	Logger
	Leveler
}
