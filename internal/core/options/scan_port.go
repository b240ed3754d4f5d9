package options

import (
	"fmt"
	"time"

	"neoagent/internal/config"
	"neoagent/internal/core/model"
)

// PortScanOptions 对应 TCP SYN 端口扫描 的参数
type PortScanOptions struct {
	Target string
	Port   string // 端口范围 (e.g. "80,443,1000-2000")

	// RTTWarmup 启用前置 RTT 探测 (对一组知名端口发送 SYN 校准重传间隔)。
	// 关闭时驱动使用保守的固定 RTT 预算 (synscan.MaxRTT)。
	RTTWarmup bool

	Output OutputOptions
}

func NewPortScanOptions() *PortScanOptions {
	return &PortScanOptions{
		RTTWarmup: config.GetConfig().Scan.RTTWarmup,
	}
}

func (o *PortScanOptions) Validate() error {
	if o.Target == "" {
		return fmt.Errorf("target is required")
	}
	if o.Port == "" {
		return fmt.Errorf("port range is required")
	}
	return nil
}

func (o *PortScanOptions) ToTask() *model.Task {
	task := model.NewTask(model.TaskTypePortScan, o.Target)
	task.PortRange = o.Port
	task.Timeout = 1 * time.Hour

	task.Params["rtt_warmup"] = o.RTTWarmup
	o.Output.ApplyToParams(task.Params)

	return task
}
