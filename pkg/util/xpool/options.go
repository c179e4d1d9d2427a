package xpool

import (
	"github.com/omeyang/xthreadpool/pkg/observability/xlog"
	"github.com/omeyang/xthreadpool/pkg/observability/xmetrics"
)

// Option 定义 Pool 可选配置函数类型。
type Option func(*options)

type options struct {
	logger        xlog.Logger
	name          string
	spawner       Spawner
	observer      xmetrics.Observer
	lockOSThread  bool
	logPanicValue bool
}

func defaultOptions() options {
	return options{
		logger:       xlog.Default(),
		spawner:      goSpawner{},
		observer:     xmetrics.NoopObserver{},
		lockOSThread: true,
	}
}

// WithLogger 设置日志记录器。
// 默认使用 xlog.Default()。传入 nil 将被忽略。
func WithLogger(logger xlog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithName 设置 pool 名称，作为 pool 属性出现在每条日志中。
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithObserver 设置观测器：每次任务执行、每次替补都会产生一个跨度。
// 默认不观测。传入 nil 将被忽略。
func WithObserver(observer xmetrics.Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithSpawner 替换 worker 执行单元的启动方式。
// 传入 nil 时 New 返回 ErrNilSpawner。
func WithSpawner(spawner Spawner) Option {
	return func(o *options) {
		o.spawner = spawner
	}
}

// WithLockOSThread 设置 worker 是否独占 OS 线程，默认开启。
func WithLockOSThread(lock bool) Option {
	return func(o *options) {
		o.lockOSThread = lock
	}
}

// WithLogPanicValue 在 panic 日志中输出 panic 值本身。
//
// 默认只记录 panic 值的类型，避免任务参数中的敏感信息进入日志。
func WithLogPanicValue() Option {
	return func(o *options) {
		o.logPanicValue = true
	}
}
