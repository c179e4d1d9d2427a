//go:build !linux

package xpool

// threadID 非 Linux 平台没有可移植的线程 ID，返回 0。
func threadID() int {
	return 0
}
