// Package xconf 基于 koanf 加载 YAML/JSON 配置，并支持文件变更后的热重载。
//
// # 加载
//
//	cfg, err := xconf.Load("/etc/xpoolctl/config.yaml")
//	if err != nil {
//		return err
//	}
//	var pool PoolConfig
//	if err := cfg.Unmarshal("pool", &pool); err != nil {
//		return err
//	}
//
// 格式由扩展名决定（.yaml/.yml、.json）。Unmarshal 只覆盖配置中出现的字段，
// 调用前写入目标结构体的值即为默认值。
//
// # 热重载
//
// [Watch] 监视配置文件所在目录（兼容编辑器先写临时文件再 rename 的保存方式），
// 防抖后调用 [Config.Reload] 并回调。[Watcher.Run] 阻塞到 ctx 结束，
// 适合交给 xrun.Group 管理。
//
// # 并发安全
//
// Config 的方法均可并发调用。Reload 解析失败时保留旧配置。
package xconf
