package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xcas/pkg/config/xconf"
	"github.com/omeyang/xcas/pkg/storage/xevict"
	"github.com/omeyang/xcas/pkg/storage/xsnapshot"
	"github.com/omeyang/xcas/pkg/util/xdigest"
)

// 全局 flag 名称。
const (
	flagCodec    = "codec"
	flagLogLevel = "log-level"
	flagLogFile  = "log-file"
)

const defaultCodec = xsnapshot.CodecCBOR

// usageError 表示参数错误，对应退出码 2。
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func newUsageError(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// onUsageError 把 urfave/cli 的 flag 解析错误统一为 usageError。
func onUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return &usageError{err: err}
}

// 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createInspectCommand(),
		createPruneCommand(),
		createConvertCommand(),
	}
}

func createInspectCommand() *cli.Command {
	return &cli.Command{
		Name:         "inspect",
		Aliases:      []string{"i"},
		Usage:        "查看快照概况",
		ArgsUsage:    "<file>",
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return newUsageError("inspect requires exactly one <file>")
			}
			return withEnv(cmd, func(e *env) error {
				return cmdInspect(ctx, e, cmd.Args().First())
			})
		},
	}
}

func createPruneCommand() *cli.Command {
	return &cli.Command{
		Name:      "prune",
		Usage:     "按配置的淘汰策略裁剪快照",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Usage:    "YAML/JSON 配置文件，读取 eviction 段",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "输出文件，为空时写入配置的 snapshot 存储，都没有时覆盖输入文件",
			},
			&cli.StringFlag{
				Name:  "redis-addr",
				Usage: "Redis 地址，配置了 snapshot.redis_key 时写入 Redis",
			},
		},
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return newUsageError("prune requires exactly one <file>")
			}
			t := pruneTarget{
				in:        cmd.Args().First(),
				out:       cmd.String("out"),
				redisAddr: cmd.String("redis-addr"),
			}
			return withEnv(cmd, func(e *env) error {
				return cmdPrune(ctx, e, cmd.String("config"), t)
			})
		},
	}
}

func createConvertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "转换快照编码",
		ArgsUsage: "<in> <out>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "to",
				Usage:    "目标编码 (json|cbor|msgpack)",
				Required: true,
			},
		},
		OnUsageError: onUsageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return newUsageError("convert requires <in> and <out>")
			}
			to, err := newSnapshotCodec(cmd.String("to"))
			if err != nil {
				return &usageError{err: err}
			}
			return withEnv(cmd, func(e *env) error {
				return cmdConvert(ctx, e, to, cmd.Args().Get(0), cmd.Args().Get(1))
			})
		},
	}
}

// env 是一次命令执行的公共依赖。
type env struct {
	out    io.Writer
	logger *slog.Logger
	codec  xsnapshot.Codec[digestSnapshot]
	// codecSet 报告 --codec 是否由用户显式指定。
	codecSet bool
}

// withEnv 解析全局 flag，构造日志与编码器后执行 fn。
func withEnv(cmd *cli.Command, fn func(*env) error) error {
	root := cmd.Root()

	codec, err := newSnapshotCodec(cmd.String(flagCodec))
	if err != nil {
		return &usageError{err: err}
	}
	logger, closer, err := newLogger(cmd.String(flagLogLevel), cmd.String(flagLogFile), root.ErrWriter)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	return fn(&env{
		out:      root.Writer,
		logger:   logger,
		codec:    codec,
		codecSet: cmd.IsSet(flagCodec),
	})
}

// cmdInspect 把快照恢复到不设上限的表中并输出统计。
func cmdInspect(ctx context.Context, e *env, path string) error {
	m, err := xevict.New[xdigest.Digest, digestEntry](xevict.Config{},
		xevict.WithLogger(e.logger), xevict.WithName("inspect"))
	if err != nil {
		return err
	}
	if err := restoreFrom(ctx, e, m, e.codec, path); err != nil {
		return err
	}

	st := m.Stats()
	w := e.out
	_, _ = fmt.Fprintf(w, "anchor:       %s\n", formatUnix(st.AnchorTimestamp))
	_, _ = fmt.Fprintf(w, "items:        %d\n", st.ItemsInStore)
	_, _ = fmt.Fprintf(w, "total_bytes:  %d\n", st.SumStoreSizeBytes)
	_, _ = fmt.Fprintf(w, "newest:       %s\n", formatUnix(st.NewestItemTimestamp))
	_, _ = fmt.Fprintf(w, "oldest:       %s\n", formatUnix(st.OldestItemTimestamp))
	if st.ItemSize.Count > 0 {
		_, _ = fmt.Fprintf(w, "size_min:     %d\n", st.ItemSize.Min)
		_, _ = fmt.Fprintf(w, "size_p50:     %d\n", st.ItemSize.P50)
		_, _ = fmt.Fprintf(w, "size_p99:     %d\n", st.ItemSize.P99)
		_, _ = fmt.Fprintf(w, "size_max:     %d\n", st.ItemSize.Max)
	}
	return nil
}

// cmdPrune 在配置的淘汰策略下恢复快照，再把剩余条目写出。
func cmdPrune(ctx context.Context, e *env, configPath string, t pruneTarget) error {
	settings, err := xconf.Load(configPath)
	if err != nil {
		return err
	}

	codec := e.codec
	if !e.codecSet {
		if codec, err = newSnapshotCodec(settings.Snapshot.Codec); err != nil {
			return err
		}
	}

	m, err := xevict.New[xdigest.Digest, digestEntry](settings.Eviction,
		xevict.WithLogger(e.logger), xevict.WithName("prune"))
	if err != nil {
		return err
	}
	if err := restoreFrom(ctx, e, m, codec, t.in); err != nil {
		return err
	}

	store, closeStore, err := t.open(settings.Snapshot, e.logger)
	if err != nil {
		return err
	}
	defer closeStore()
	p, err := xsnapshot.NewPersister(m, store, codec, xsnapshot.WithLogger(e.logger))
	if err != nil {
		return err
	}
	if err := p.Save(ctx); err != nil {
		return err
	}

	st := m.Stats()
	_, _ = fmt.Fprintf(e.out, "kept %d items (%d bytes), evicted %d items (%d bytes) -> %s\n",
		st.ItemsInStore, st.SumStoreSizeBytes, st.EvictedItems.Value, st.EvictedBytes, storeName(store))
	return nil
}

// cmdConvert 用全局编码读取快照，再以 to 编码写出。
func cmdConvert(ctx context.Context, e *env, to xsnapshot.Codec[digestSnapshot], in, out string) error {
	snap, err := readSnapshot(ctx, e.codec, in)
	if err != nil {
		return err
	}
	data, err := to.Encode(snap)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	store, err := xsnapshot.NewFileStore(out)
	if err != nil {
		return err
	}
	if err := store.Save(ctx, data); err != nil {
		return err
	}
	e.logger.InfoContext(ctx, "snapshot converted",
		slog.String("in", in),
		slog.String("out", store.Path()),
		slog.Int("items", len(snap.Items)),
	)
	_, _ = fmt.Fprintf(e.out, "converted %d items -> %s\n", len(snap.Items), store.Path())
	return nil
}

func formatUnix(sec int64) string {
	if sec < 0 {
		return "-"
	}
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}
