package port

import (
	"context"
	"fmt"
	"net"
	"time"

	"neoagent/internal/core/model"
	"neoagent/internal/core/scanner/synscan"
	"neoagent/internal/pkg/logger"
	"neoagent/internal/pkg/utils"
)

const ScannerName = "tcp_syn_port_scanner"

// SynPortScanner 端口扫描器：实现了 runner.Runner 接口，底层是 synscan 半开
// TCP SYN 扫描驱动。不做服务版本识别 —— 这是显式的 Non-goal，开放端口即是
// 唯一可报告的结果。
type SynPortScanner struct{}

func NewSynPortScanner() *SynPortScanner {
	return &SynPortScanner{}
}

func (s *SynPortScanner) Name() model.TaskType {
	return model.TaskTypePortScan
}

// resultSink adapts synscan.ReporterSink onto an in-memory collection of
// PortScanResult, the shape the rest of the agent (reporter, JSON output)
// already knows how to render.
type resultSink struct {
	ip      string
	results []interface{}
}

func (r *resultSink) AddPort(port uint16, proto string) {
	r.results = append(r.results, model.PortScanResult{
		IP:       r.ip,
		Port:     port,
		Protocol: proto,
		Status:   "open",
	})
}

func (r *resultSink) Status(int, int)                 {}
func (r *resultSink) ScanComplete(bool, string, bool) {}

// Run 解析目标与端口范围，执行 SYN 扫描，返回单个聚合结果；Data 字段是
// []interface{} of model.PortScanResult (可能为空，表示未发现开放端口)。
func (s *SynPortScanner) Run(ctx context.Context, task *model.Task) ([]*model.TaskResult, error) {
	start := time.Now()

	if task.PortRange == "" {
		return nil, fmt.Errorf("port range is required")
	}

	dst, err := resolveTarget(task.Target)
	if err != nil {
		return nil, err
	}

	rawPorts := utils.ParseIntList(task.PortRange)
	if len(rawPorts) == 0 {
		return nil, fmt.Errorf("no valid ports in range %q", task.PortRange)
	}
	ports := make([]uint16, 0, len(rawPorts))
	for _, p := range rawPorts {
		if p < 0 || p > 65535 {
			continue
		}
		ports = append(ports, uint16(p))
	}

	rttWarmup := false
	if v, ok := task.Params["rtt_warmup"]; ok {
		if b, ok := v.(bool); ok {
			rttWarmup = b
		}
	}

	sink := &resultSink{ip: dst.String()}
	opts := synscan.Options{
		RTTWarmup:   rttWarmup,
		Sink:        sink,
		OpenRaw:     synscan.OpenRaw,
		OpenCapture: synscan.OpenCapture,
	}

	_, scanErr := synscan.Scan(ctx, dst, ports, opts)
	duration := time.Since(start).Milliseconds()

	taskResult := &model.TaskResult{
		TaskID:    task.ID,
		Status:    model.TaskStatusCompleted,
		Data:      sink.results,
		StartTime: start,
		EndTime:   time.Now(),
	}
	if scanErr != nil {
		taskResult.Status = model.TaskStatusFailed
		taskResult.Error = scanErr.Error()
		logger.LogScanOperation(task.ID, string(s.Name()), task.Target, "failed", 100,
			scanErr.Error(), duration, nil)
		return []*model.TaskResult{taskResult}, scanErr
	}

	logger.LogScanOperation(task.ID, string(s.Name()), task.Target, "completed", 100,
		fmt.Sprintf("%d open ports", len(sink.results)), duration, nil)
	return []*model.TaskResult{taskResult}, nil
}

func resolveTarget(target string) (net.IP, error) {
	target = utils.NormalizeIP(target)
	if ip := net.ParseIP(target); ip != nil {
		return ip, nil
	}
	addr, err := net.ResolveIPAddr("ip", target)
	if err != nil {
		return nil, fmt.Errorf("synscan: cannot resolve target %q: %w", target, err)
	}
	return addr.IP, nil
}
