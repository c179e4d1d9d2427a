// Package xlog 基于 log/slog 的结构化日志库。
//
// # 核心功能
//
//   - Builder 模式配置（输出目标、级别、格式、轮转）
//   - 动态级别调整（运行时热更新，配合 xconf.Watch 使用）
//   - 全局 Logger（[Default]/[SetDefault]）
//   - 线程池相关的便捷属性（[WorkerID]、[ThreadID]、[Pool]）
//
// # 创建 Logger
//
// Builder 采用 first-error-wins：遇到第一个配置错误后，Build 直接返回该错误。
//
//	logger, cleanup, err := xlog.New().
//		SetLevelString("debug").
//		SetFormat("json").
//		SetRotation("/var/log/xpool/app.log").
//		Build()
//	if err != nil {
//		return err
//	}
//	defer cleanup()
//
// # 日志级别
//
// LevelDebug(-4)、LevelInfo(0)、LevelWarn(4)、LevelError(8)。
// Level 实现 encoding.TextMarshaler/TextUnmarshaler，可直接出现在配置结构体中。
//
// # 派生 Logger
//
// [Logger.With] 和 [Logger.WithGroup] 返回的派生 logger 与父级共享 LevelVar，
// 对任一方调用 SetLevel 都会同步生效。
package xlog
