package xrun

import (
	"os"

	"github.com/omeyang/xthreadpool/pkg/observability/xlog"
)

// Option Group 配置选项。
type Option func(*options)

type options struct {
	logger    xlog.Logger
	name      string
	signals   []os.Signal
	noSignals bool
}

func defaultOptions() options {
	return options{
		logger: xlog.Default(),
		name:   "xrun",
	}
}

// WithLogger 设置记录任务启停的日志器，默认 xlog.Default()。nil 被忽略。
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置 Group 名称，出现在每条日志的 group 属性中。空值被忽略。
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithSignals 设置 Run 监听的信号，空列表表示使用 [DefaultSignals]。
func WithSignals(signals ...os.Signal) Option {
	copied := append([]os.Signal(nil), signals...)
	return func(o *options) {
		o.signals = copied
	}
}

// WithoutSignalHandler 不注册信号监听，由调用方自行处理。
func WithoutSignalHandler() Option {
	return func(o *options) {
		o.noSignals = true
	}
}
