// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xpool: 固定大小、自愈的共享队列线程池，worker 异常退出后自动补位
package util
