package xconf

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce 默认防抖时间
const defaultDebounce = 100 * time.Millisecond

// ChangeFunc 配置重载回调，err 非 nil 表示重载失败或监视出错（此时 cfg 仍为旧配置）。
type ChangeFunc func(cfg *Config, err error)

// WatchOption 监视选项。
type WatchOption func(*Watcher)

// WithDebounce 设置防抖时间：该时间内的连续变更只触发一次重载。非正值被忽略。
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// Watcher 监视配置文件并在变更后重载。
type Watcher struct {
	cfg      *Config
	fs       *fsnotify.Watcher
	onChange ChangeFunc
	debounce time.Duration

	running   atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// Watch 创建配置文件监视器，调用 Run 后开始监视。
// 只支持 Load 创建的 Config。
func Watch(cfg *Config, onChange ChangeFunc, opts ...WatchOption) (*Watcher, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.path == "" {
		return nil, ErrNotFromFile
	}

	w := &Watcher{cfg: cfg, onChange: onChange, debounce: defaultDebounce}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xconf: create watcher: %w", err)
	}
	// 监视目录而非文件：先删后建、rename 覆盖的保存方式会让文件级监视失效
	dir := filepath.Dir(cfg.path)
	if err := fs.Add(dir); err != nil {
		return nil, errors.Join(fmt.Errorf("xconf: watch directory %s: %w", dir, err), fs.Close())
	}
	w.fs = fs
	return w, nil
}

// Run 阻塞监视直到 ctx 结束。回调在 Run 所在 goroutine 上执行，
// Run 返回后不会再有回调。Run 只能调用一次。
func (w *Watcher) Run(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return ErrWatcherRunning
	}
	defer func() { _ = w.Close() }()

	name := filepath.Base(w.cfg.path)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if relevant(ev, name) {
				timer.Reset(w.debounce)
				fire = timer.C
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.notify(fmt.Errorf("xconf: watch: %w", err))

		case <-fire:
			fire = nil
			w.notify(w.cfg.Reload())
		}
	}
}

// Close 释放底层 fsnotify 资源，可重复调用。Run 返回时会自动调用。
func (w *Watcher) Close() error {
	w.closeOnce.Do(func() {
		w.closeErr = w.fs.Close()
	})
	return w.closeErr
}

func (w *Watcher) notify(err error) {
	if w.onChange != nil {
		w.onChange(w.cfg, err)
	}
}

// relevant 判断事件是否可能改变了目标文件：直接写入、新建或 rename 覆盖。
func relevant(ev fsnotify.Event, name string) bool {
	if filepath.Base(ev.Name) != name {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}
