package main

import (
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/omeyang/xcas/pkg/util/xfile"
)

// 日志文件轮转参数。
const (
	logMaxSizeMB  = 50
	logMaxBackups = 3
	logMaxAgeDays = 7
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger 按级别创建文本日志。file 非空时写入按大小轮转的文件，否则写入 stderr。
func newLogger(level, file string, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, nil, newUsageError("invalid --log-level %q", level)
	}

	var w io.Writer = stderr
	var closer io.Closer = nopCloser{}
	if file != "" {
		path, err := xfile.SanitizePath(file)
		if err != nil {
			return nil, nil, newUsageError("invalid --log-file: %v", err)
		}
		if err := xfile.EnsureDir(path); err != nil {
			return nil, nil, err
		}
		rotator := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    logMaxSizeMB,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAgeDays,
			Compress:   true,
		}
		w, closer = rotator, rotator
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	return logger, closer, nil
}
