// xpoolctl 用于演练和压测 xpool 线程池的自愈行为。
//
// 用法:
//
//	xpoolctl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-c, --config      配置文件（.yaml/.yml/.json），命令行参数优先于配置文件
//	    --log-level   日志级别 (debug/info/warn/error，默认 info)
//	    --log-format  日志格式 (text/json，默认 text)
//	    --log-file    日志文件，按大小轮转；为空时输出到 stderr
//
// 命令:
//
//	run     提交固定数量的任务（可按比例注入 panic / runtime.Goexit），排空后输出统计
//	serve   按固定速率持续提交任务并周期性输出统计，收到信号后排空退出；
//	        使用 --config 时监听文件变更并热更新日志级别
//
// 退出码:
//
//	0: 成功
//	1: 运行失败，或 run 命令检测到任务丢失
//	2: 参数或配置错误
//
// 示例:
//
//	xpoolctl run --workers 4 --jobs 1000 --panic-every 50
//	xpoolctl -c xpoolctl.yaml serve --rate 500 --report-interval 5s
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
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xpoolctl",
		Usage:     "xpool 自愈线程池演练工具",
		Version:   fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "配置文件路径（yaml/json）",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "日志级别 (debug/info/warn/error)",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  flagLogFormat,
				Usage: "日志格式 (text/json)",
				Value: "text",
			},
			&cli.StringFlag{
				Name:  flagLogFile,
				Usage: "日志文件路径，为空时输出到 stderr",
			},
		},
		Commands: []*cli.Command{
			createRunCommand(),
			createServeCommand(),
		},
		// 由 run 统一映射退出码，不让 urfave/cli 直接 os.Exit
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			var coder cli.ExitCoder
			if errors.As(err, &coder) && err.Error() != "" {
				fmt.Fprintln(stderr, err)
			}
		},
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	err := createApp(stdout, stderr).Run(ctx, args)
	if err == nil {
		return 0
	}

	var lost *jobLossError
	if errors.As(err, &lost) {
		fmt.Fprintf(stderr, "错误: %v\n", lost)
		return 1
	}
	var usage *usageError
	if errors.As(err, &usage) {
		fmt.Fprintf(stderr, "参数错误: %v\n", usage)
		return 2
	}
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	fmt.Fprintf(stderr, "错误: %v\n", err)
	return 1
}
