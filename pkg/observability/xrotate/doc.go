// Package xrotate 提供日志文件轮转。
//
// 当前实现基于 lumberjack，按文件大小轮转，并按数量/天数清理备份：
//
//	r, err := xrotate.NewLumberjack("/var/log/xpool/app.log",
//		xrotate.WithMaxSize(100),
//		xrotate.WithMaxBackups(3),
//	)
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//
// Rotator 实现 io.WriteCloser，可直接作为 xlog 的输出目标（见 xlog.Builder.SetRotation）。
package xrotate
