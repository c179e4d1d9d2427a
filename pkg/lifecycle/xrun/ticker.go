package xrun

import (
	"context"
	"time"
)

// Ticker 返回按 interval 周期调用 fn 的任务函数；immediate 为 true 时启动即调用一次。
// fn 返回错误时任务结束并返回该错误，ctx 取消时返回 ctx.Err()。
func Ticker(interval time.Duration, immediate bool, fn func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if interval <= 0 {
			return ErrInvalidInterval
		}
		if fn == nil {
			return ErrNilFunc
		}

		if immediate {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx); err != nil {
				return err
			}
		}

		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				if err := fn(ctx); err != nil {
					return err
				}
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
