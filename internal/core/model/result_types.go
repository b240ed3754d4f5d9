package model

import (
	"fmt"
	"time"
)

// IpAliveResult IP存活扫描结果
type IpAliveResult struct {
	IP       string        `json:"ip"`
	Alive    bool          `json:"alive"`
	Latency  time.Duration `json:"latency,omitempty"`
	TTL      int           `json:"ttl,omitempty"`
	Hostname string        `json:"hostname,omitempty"`
	OS       string        `json:"os,omitempty"`
}

// Headers 实现 TabularData 接口
// IP        | Status | Latency | TTL | Hostname | OS
// 127.0.0.1 | UP     | 10ms    | 64  | localhost| Linux
func (r IpAliveResult) Headers() []string {
	// 表头列
	return []string{"IP", "Status", "Latency", "TTL", "Hostname", "OS"}
}

// Rows 实现 TabularData 接口
func (r IpAliveResult) Rows() [][]string {
	status := "DOWN"
	if r.Alive {
		status = "UP"
	}

	latency := "N/A"
	if r.Latency > 0 {
		latency = r.Latency.String()
	}

	ttl := "N/A"
	if r.TTL > 0 {
		ttl = fmt.Sprintf("%d", r.TTL)
	}

	return [][]string{{r.IP, status, latency, ttl, r.Hostname, r.OS}}
}

// PortScanResult 描述一次 TCP SYN 扫描中被判定为开放的单个端口。
// 不携带服务版本信息：版本识别是显式的 Non-goal。
type PortScanResult struct {
	IP       string `json:"ip"`
	Port     uint16 `json:"port"`
	Protocol string `json:"protocol"`
	Status   string `json:"status"` // "open"
}

// Headers 实现 TabularData 接口
func (r PortScanResult) Headers() []string {
	return []string{"IP", "Port", "Protocol", "Status"}
}

// Rows 实现 TabularData 接口
func (r PortScanResult) Rows() [][]string {
	return [][]string{{r.IP, fmt.Sprintf("%d", r.Port), r.Protocol, r.Status}}
}
