package main

import (
	"errors"
	"sync/atomic"

	"github.com/omeyang/xthreadpool/pkg/util/xpool"
)

// errInjectedSpawn 注入的 worker 启动失败
var errInjectedSpawn = errors.New("injected spawn failure")

// faultySpawner 跳过前 skip 次启动，之后每 every 次启动失败一次。
type faultySpawner struct {
	inner xpool.Spawner
	skip  int64
	every int64
	calls atomic.Int64
}

func (s *faultySpawner) Spawn(run func()) error {
	n := s.calls.Add(1) - s.skip
	if n > 0 && n%s.every == 0 {
		return errInjectedSpawn
	}
	return s.inner.Spawn(run)
}

// newSpawner 按配置组合 Spawner，返回 nil 表示使用默认实现。
func newSpawner(pc PoolConfig) (xpool.Spawner, error) {
	sc := pc.Spawn
	if sc.FailEvery == 0 && sc.Retries == 0 {
		return nil, nil
	}

	var spawner xpool.Spawner = xpool.SpawnerFunc(func(run func()) error {
		go run()
		return nil
	})
	if sc.FailEvery > 0 {
		spawner = &faultySpawner{
			inner: spawner,
			skip:  int64(pc.Workers),
			every: int64(sc.FailEvery),
		}
	}
	if sc.Retries > 0 {
		rs, err := xpool.NewRetrySpawner(spawner, uint(sc.Retries)+1, sc.RetryDelay, sc.MaxDelay)
		if err != nil {
			return nil, err
		}
		return rs, nil
	}
	return spawner, nil
}
