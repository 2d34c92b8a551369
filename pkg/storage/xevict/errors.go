package xevict

import "errors"

var (
	// ErrMaxSecondsOverflow 表示 MaxSeconds 超出 int32 可表示的秒数。
	ErrMaxSecondsOverflow = errors.New("xevict: max_seconds must not exceed 2147483647")

	// ErrNilEntryBuilder 表示 RestoreSnapshot 未提供条目构造函数。
	ErrNilEntryBuilder = errors.New("xevict: entry builder must not be nil")
)
