package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/omeyang/xlogroll/internal/config"
	"github.com/omeyang/xlogroll/pkg/observability/xarchive"
	"github.com/omeyang/xlogroll/pkg/observability/xretention"
)

// defaultDrainTimeout 退出时等待归档任务完成的默认时长。
const defaultDrainTimeout = 30 * time.Second

// usageError 参数错误，映射为退出码 2。
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// isCLIUsageError 识别 urfave/cli 在 OnUsageError 之外产生的参数错误。
func isCLIUsageError(err error) bool {
	msg := err.Error()
	for _, marker := range []string{
		"flag provided but not defined",
		"Required flag",
		"Required flags",
		"No help topic for",
		"invalid value",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "config",
		Aliases:  []string{"c"},
		Usage:    "配置文件路径（yaml/json）",
		Required: true,
	}
}

func createCommands() []*cli.Command {
	return []*cli.Command{
		createRunCommand(),
		createArchiveCommand(),
		createPruneCommand(),
		createConfigCommand(),
	}
}

func createRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "读取标准输入写入周期轮转文件",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "tee",
				Usage: "同时把输入回显到标准输出",
			},
			&cli.DurationFlag{
				Name:  "drain-timeout",
				Usage: "退出时等待归档任务的最长时间",
				Value: defaultDrainTimeout,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			root := cmd.Root()
			opts := runOptions{
				configPath:   cmd.String("config"),
				in:           root.Reader,
				stderr:       root.ErrWriter,
				drainTimeout: cmd.Duration("drain-timeout"),
			}
			if cmd.Bool("tee") {
				opts.echo = root.Writer
			}
			return cmdRun(ctx, opts)
		},
	}
}

func createArchiveCommand() *cli.Command {
	return &cli.Command{
		Name:      "archive",
		Usage:     "压缩文件并删除源文件",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "format",
				Usage: "归档格式 gzip|zip",
				Value: xarchive.FormatGzip.String(),
			},
			&cli.IntFlag{
				Name:  "level",
				Usage: "压缩级别（-2~9）",
				Value: xarchive.DefaultLevel,
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return usagef("archive 需要且只需要一个文件参数")
			}
			format, err := xarchive.ParseFormat(cmd.String("format"))
			if err != nil {
				return &usageError{err: err}
			}
			level := cmd.Int("level")
			if err := xarchive.ValidateLevel(level); err != nil {
				return &usageError{err: err}
			}
			dst, err := xarchive.Archive(cmd.Args().First(), format, xarchive.WithLevel(level))
			if dst != "" {
				fmt.Fprintln(cmd.Root().Writer, dst)
			}
			return err
		},
	}
}

func createPruneCommand() *cli.Command {
	return &cli.Command{
		Name:      "prune",
		Usage:     "只保留最新的 N 个归档",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "max-backups",
				Aliases:  []string{"n"},
				Usage:    "保留数量，<= 0 时不删除",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "ext",
				Usage: "归档扩展名",
				Value: xarchive.FormatGzip.Ext(),
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return usagef("prune 需要且只需要一个文件参数")
			}
			file := cmd.Args().First()
			deleted, err := xretention.Prune(filepath.Dir(file), filepath.Base(file), cmd.String("ext"), cmd.Int("max-backups"))
			fmt.Fprintf(cmd.Root().Writer, "deleted %d\n", deleted)
			return err
		},
	}
}

func createConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "打印合并默认值后的配置",
		Flags: []cli.Flag{configFlag()},
		Action: func(_ context.Context, cmd *cli.Command) error {
			s, _, err := config.LoadFile(cmd.String("config"))
			if err != nil {
				return asUsage(err)
			}
			out, err := yaml.Marshal(s)
			if err != nil {
				return err
			}
			_, err = cmd.Root().Writer.Write(out)
			return err
		},
	}
}

// asUsage 把配置校验错误归为参数错误，文件读取等错误保持原样。
func asUsage(err error) error {
	for _, target := range []error{
		config.ErrEmptyFile,
		config.ErrInvalidPool,
		config.ErrInvalidFlushInterval,
		xarchive.ErrInvalidFormat,
		xarchive.ErrInvalidLevel,
	} {
		if errors.Is(err, target) {
			return &usageError{err: err}
		}
	}
	return err
}
