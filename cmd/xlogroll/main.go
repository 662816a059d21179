// xlogroll 把标准输入写入按周期轮转的日志文件，并在轮转后异步归档、清理旧归档。
//
// 用法:
//
//	xlogroll <命令> [命令参数]
//
// 命令:
//
//	run -c FILE                       读取标准输入写入周期轮转文件（配置支持热更新）
//	archive [--format gzip|zip] FILE  立即压缩 FILE 并删除源文件
//	prune --max-backups N FILE        只保留 FILE 的最新 N 个归档
//	config -c FILE                    打印合并默认值后的配置
//
// 退出码:
//
//	0: 成功
//	1: 执行失败
//	2: 参数错误（缺少参数、未知 flag、无效配置值等）
//
// 示例:
//
//	myapp 2>&1 | xlogroll run -c /etc/xlogroll.yaml
//	xlogroll archive --format zip /var/log/app/app.log.2026-10-16
//	xlogroll prune --max-backups 7 /var/log/app/app.log
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

// 版本信息，可通过 -ldflags "-X main.Version=..." 注入。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// createApp 创建 CLI 应用。
func createApp(stdin io.Reader, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xlogroll",
		Usage:     "周期日志轮转与归档",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		Commands:  createCommands(),
		OnUsageError: func(_ context.Context, _ *cli.Command, err error, _ bool) error {
			return &usageError{err: err}
		},
		// 禁止 urfave/cli 直接 os.Exit，退出码统一由 run 映射
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(stderr, err)
			}
		},
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := createApp(stdin, stdout, stderr)
	if err := app.Run(ctx, args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) || isCLIUsageError(err) {
			fmt.Fprintf(stderr, "参数错误: %v\n", err)
			return 2
		}
		fmt.Fprintf(stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}
