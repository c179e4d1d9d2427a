package xpool

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/omeyang/xthreadpool/pkg/observability/xlog"
)

// syncBuffer 并发安全的日志输出缓冲
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger(t *testing.T, w io.Writer) xlog.Logger {
	t.Helper()
	if w == nil {
		w = io.Discard
	}
	logger, cleanup, err := xlog.New().
		SetOutput(w).
		SetFormat("json").
		SetLevel(xlog.LevelDebug).
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { _ = cleanup() })
	return logger
}

// newTestPool 创建丢弃日志的 pool，测试结束时释放句柄并等待 worker 退出。
func newTestPool(t *testing.T, workers int, opts ...Option) *Pool {
	t.Helper()
	opts = append([]Option{WithLogger(newTestLogger(t, nil))}, opts...)
	p, err := New(workers, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, shutdown(p))
	})
	return p
}

func shutdown(p *Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.Shutdown(ctx)
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
