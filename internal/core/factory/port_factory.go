package factory

import (
	"neoagent/internal/core/scanner/port"
)

// NewPortScanner 创建 TCP SYN 端口扫描器
// 返回的 SynPortScanner 实现了 Runner 接口 (TaskTypePortScan)
func NewPortScanner() *port.SynPortScanner {
	return port.NewSynPortScanner()
}
