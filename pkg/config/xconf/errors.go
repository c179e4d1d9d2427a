package xconf

import "errors"

var (
	// ErrEmptyPath 表示配置文件路径为空。
	ErrEmptyPath = errors.New("xconf: empty config path")

	// ErrUnsupportedFormat 表示不支持的配置格式。
	ErrUnsupportedFormat = errors.New("xconf: unsupported config format")

	// ErrLoadFailed 表示读取配置失败。
	ErrLoadFailed = errors.New("xconf: failed to load config")

	// ErrParseFailed 表示配置解析失败。
	ErrParseFailed = errors.New("xconf: failed to parse config")

	// ErrUnmarshalFailed 表示配置反序列化失败。
	ErrUnmarshalFailed = errors.New("xconf: failed to unmarshal config")

	// ErrNotFromFile 表示 Config 由字节数据创建，不支持 Reload 和 Watch。
	ErrNotFromFile = errors.New("xconf: config not loaded from file")

	// ErrNilConfig 表示传入了 nil Config。
	ErrNilConfig = errors.New("xconf: nil config")

	// ErrWatcherRunning 表示 Watcher.Run 被重复调用。
	ErrWatcherRunning = errors.New("xconf: watcher already running")
)
