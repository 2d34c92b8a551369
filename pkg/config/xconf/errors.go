package xconf

import "errors"

// 配置加载和解析相关错误。
var (
	// ErrEmptyPath 表示配置文件路径为空。
	ErrEmptyPath = errors.New("xconf: empty config path")

	// ErrUnsupportedFormat 表示不支持的配置格式。
	ErrUnsupportedFormat = errors.New("xconf: unsupported config format")

	// ErrLoadFailed 表示配置加载失败。
	ErrLoadFailed = errors.New("xconf: failed to load config")

	// ErrParseFailed 表示配置解析失败。
	ErrParseFailed = errors.New("xconf: failed to parse config")

	// ErrUnmarshalFailed 表示配置反序列化失败。
	ErrUnmarshalFailed = errors.New("xconf: failed to unmarshal config")

	// ErrInvalidSettings 表示配置值不合法。
	ErrInvalidSettings = errors.New("xconf: invalid settings")

	// ErrNoSnapshotStore 表示配置中既没有快照路径也没有可用的 Redis 键。
	ErrNoSnapshotStore = errors.New("xconf: no snapshot store configured")
)

// 监视相关错误。
var (
	// ErrNilCallback 表示回调函数为 nil。
	ErrNilCallback = errors.New("xconf: nil watch callback")

	// ErrInvalidDebounce 表示防抖时间不是正数。
	ErrInvalidDebounce = errors.New("xconf: debounce must be positive")

	// ErrWatchFailed 表示 fsnotify 报告了错误。
	ErrWatchFailed = errors.New("xconf: watch error")
)
