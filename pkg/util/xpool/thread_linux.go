//go:build linux

package xpool

import "golang.org/x/sys/unix"

// threadID 返回当前 OS 线程 ID。
func threadID() int {
	return unix.Gettid()
}
