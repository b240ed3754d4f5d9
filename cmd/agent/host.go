package main

import (
	"fmt"

	"neoagent/internal/pkg/monitor"

	"github.com/spf13/cobra"
)

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "显示本机信息与负载",
	Long:  "显示扫描主机的静态信息 (CPU/内存/磁盘容量) 与当前负载快照，用于评估本机能承受的扫描并发度。",
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := monitor.GetHostInfo()
		if err != nil {
			return err
		}
		metrics, err := monitor.GetSystemMetrics()
		if err != nil {
			return err
		}

		fmt.Printf("Host:     %s (%s/%s %s)\n", info.Hostname, info.Platform, info.PlatformVersion, info.Arch)
		fmt.Printf("Kernel:   %s\n", info.KernelVersion)
		fmt.Printf("CPU:      %d cores, usage %.1f%%\n", info.CPUCores, metrics.CPUUsage)
		fmt.Printf("Memory:   %.1f GB total, usage %.1f%%\n", float64(info.MemoryTotal)/1e9, metrics.MemoryUsage)
		fmt.Printf("Disk:     %.1f GB total, usage %.1f%%\n", float64(info.DiskTotal)/1e9, metrics.DiskUsage)
		fmt.Printf("Network:  sent %d bytes, recv %d bytes\n", metrics.NetworkBytesSent, metrics.NetworkBytesRecv)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(hostCmd)
}
