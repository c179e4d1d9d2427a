package main

import "fmt"

// usageError 参数或配置错误，退出码 2。
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// jobLossError 表示有本应正常完成的任务没有执行。
type jobLossError struct {
	expected int64
	executed int64
}

func (e *jobLossError) Error() string {
	return fmt.Sprintf("%d of %d jobs lost", e.expected-e.executed, e.expected)
}
