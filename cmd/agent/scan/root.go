package scan

import (
	"github.com/spf13/cobra"
)

// NewScanCmd 创建 scan 父命令
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "执行扫描任务",
		Long: `执行扫描任务：IP 存活探测与 TCP SYN 端口扫描。
请使用具体的子命令。`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			globalOutputOptions.OutputCsv, _ = cmd.Flags().GetString("oc")
			globalOutputOptions.OutputJson, _ = cmd.Flags().GetString("oj")
		},
	}

	cmd.PersistentFlags().String("oc", "", "结果输出为 CSV 文件")
	cmd.PersistentFlags().String("oj", "", "结果输出为 JSON 文件")

	// 注册子命令
	cmd.AddCommand(NewIpAliveScanCmd())
	cmd.AddCommand(NewPortScanCmd())

	return cmd
}
