package xrun

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSignal 表示因收到系统信号而退出，使用 errors.Is 判断 [*SignalError]。
	ErrSignal = errors.New("xrun: received signal")

	// ErrNilFunc 表示提交了 nil 任务函数。
	ErrNilFunc = errors.New("xrun: nil function")

	// ErrInvalidInterval 表示 Ticker 的间隔不是正数。
	ErrInvalidInterval = errors.New("xrun: interval must be positive")
)

// SignalError 记录触发退出的信号。
type SignalError struct {
	Signal os.Signal
}

// Error 实现 error 接口。
func (e *SignalError) Error() string {
	if e.Signal == nil {
		return "xrun: received signal <nil>"
	}
	return fmt.Sprintf("xrun: received signal %s", e.Signal)
}

// Is 支持 errors.Is(err, ErrSignal)。
func (e *SignalError) Is(target error) bool {
	return target == ErrSignal
}
