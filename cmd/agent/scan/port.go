package scan

import (
	"context"
	"fmt"

	"neoagent/internal/core/options"
	"neoagent/internal/core/reporter"
	"neoagent/internal/core/runner"

	"github.com/spf13/cobra"
)

func NewPortScanCmd() *cobra.Command {
	opts := options.NewPortScanOptions()

	cmd := &cobra.Command{
		Use:   "port",
		Short: "TCP SYN 端口扫描",
		Long:  `对指定目标的端口范围执行半开 (SYN) 扫描，不进行服务版本识别。`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.Validate(); err != nil {
				return err
			}

			// 注入全局输出参数
			opts.Output = globalOutputOptions

			task := opts.ToTask()

			manager := runner.NewRunnerManager()

			fmt.Printf("[*] Starting TCP SYN scan on %s (ports: %s)...\n", task.Target, task.PortRange)
			results, err := manager.Execute(context.Background(), task)
			if err != nil {
				return err
			}

			console := reporter.NewConsoleReporter()
			console.PrintResults(results)

			if opts.Output.OutputJson != "" {
				saveJsonResult(opts.Output.OutputJson, results)
			}
			if opts.Output.OutputCsv != "" {
				if err := reporter.SaveCsvResult(opts.Output.OutputCsv, results); err != nil {
					fmt.Printf("[-] Failed to save csv output: %v\n", err)
				}
			}

			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.Target, "target", "t", opts.Target, "扫描目标")
	flags.StringVarP(&opts.Port, "port", "p", opts.Port, "端口范围 (e.g. 80,443,1000-2000)")
	flags.BoolVar(&opts.RTTWarmup, "rtt-warmup", opts.RTTWarmup, "启用前置 RTT 探测以校准重传间隔")

	cmd.MarkFlagRequired("target")
	cmd.MarkFlagRequired("port")

	return cmd
}
