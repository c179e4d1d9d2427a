package xpool

import (
	"time"

	retry "github.com/avast/retry-go/v5"
)

// Spawner 为 worker 提供执行单元。
//
// Spawn 必须异步运行 run（run 会一直阻塞到 worker 退出），
// 只有在执行单元确定无法启动时才返回错误。Spawn 可能被多个 goroutine 并发调用：
// 构造期间由 New 调用，异常恢复时由即将退出的 worker 调用。
type Spawner interface {
	Spawn(run func()) error
}

// SpawnerFunc 将函数适配为 Spawner。
type SpawnerFunc func(run func()) error

// Spawn 实现 Spawner 接口。
func (f SpawnerFunc) Spawn(run func()) error {
	return f(run)
}

// goSpawner 默认实现：每个 worker 一个 goroutine，go 语句不会失败。
type goSpawner struct{}

func (goSpawner) Spawn(run func()) error {
	go run()
	return nil
}

// RetrySpawner 在 inner 启动失败时按指数退避重试。
//
// 替补 worker 的启动发生在即将退出的 worker 上，重试期间该 worker 仍占用槽位，
// 存活数不会下降；重试耗尽后按替补失败处理。
type RetrySpawner struct {
	inner    Spawner
	attempts uint
	delay    time.Duration
	maxDelay time.Duration
}

// NewRetrySpawner 创建 RetrySpawner。attempts 为总尝试次数（含首次），小于 1 时按 1 处理；
// delay 为首次重试前的等待时间，之后指数增长，最长 maxDelay（非正值表示不设上限）。
func NewRetrySpawner(inner Spawner, attempts uint, delay, maxDelay time.Duration) (*RetrySpawner, error) {
	if inner == nil {
		return nil, ErrNilSpawner
	}
	return &RetrySpawner{
		inner:    inner,
		attempts: max(attempts, 1),
		delay:    delay,
		maxDelay: maxDelay,
	}, nil
}

// Spawn 实现 Spawner 接口，返回最后一次失败的错误。
func (s *RetrySpawner) Spawn(run func()) error {
	opts := []retry.Option{
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	}
	if s.maxDelay > 0 {
		opts = append(opts, retry.MaxDelay(s.maxDelay))
	}
	return retry.New(opts...).Do(func() error {
		return s.inner.Spawn(run)
	})
}
