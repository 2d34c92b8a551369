// xevictctl 是 xevict 快照文件的命令行工具。
//
// 用法:
//
//	xevictctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --codec      快照编码 json|cbor|msgpack (默认: cbor)
//	    --log-level  日志级别 debug|info|warn|error (默认: warn)
//	    --log-file   日志文件路径，按大小轮转 (默认: 输出到 stderr)
//
// 命令:
//
//	inspect <file>                              查看快照概况
//	prune --config <yaml> [--out <file>] <file> 按配置的淘汰策略裁剪快照
//	convert --to <codec> <in> <out>             转换快照编码
//
// 退出码:
//
//	0: 命令执行成功
//	1: 命令执行失败
//	2: 参数错误（缺少必需参数、未知命令、未知编码等）
//
// 示例:
//
//	xevictctl inspect /var/lib/xcas/snapshot.cbor
//	xevictctl prune --config /etc/xcas/config.yaml --out pruned.cbor snapshot.cbor
//	xevictctl -c cbor convert --to json snapshot.cbor snapshot.json
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	setupSignalHandler(cancel)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// createApp 创建 CLI 应用。
func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xevictctl",
		Usage:     "xevict 快照文件工具",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagCodec,
				Aliases: []string{"c"},
				Usage:   "快照编码 (json|cbor|msgpack)",
				Value:   defaultCodec,
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "日志级别 (debug|info|warn|error)",
				Value: "warn",
			},
			&cli.StringFlag{
				Name:  flagLogFile,
				Usage: "日志文件路径，为空时输出到 stderr",
			},
		},
		Commands:     createCommands(),
		Action:       rootAction,
		OnUsageError: onUsageError,
		// 禁止 urfave/cli 直接调用 os.Exit，由 run 统一映射退出码。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				_, _ = fmt.Fprintln(stderr, err)
			}
		},
	}
}

// rootAction 处理未匹配任何子命令的调用。
func rootAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return newUsageError("unknown command %q", cmd.Args().First())
	}
	_, err := fmt.Fprintf(cmd.Root().Writer, "用法: %[1]s [全局选项] <inspect|prune|convert> ...\n运行 %[1]s --help 查看帮助\n", cmd.Name)
	return err
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := createApp(stdout, stderr)

	if err := app.Run(ctx, args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			_, _ = fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		_, _ = fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}

// setupSignalHandler 第一次信号取消 ctx，第二次信号强制退出。
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()

		<-sigCh
		signal.Stop(sigCh)
		os.Exit(130)
	}()
}
