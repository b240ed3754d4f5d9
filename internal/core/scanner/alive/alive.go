package alive

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"neoagent/internal/core/lib/network/qos"
	"neoagent/internal/core/model"
	"neoagent/internal/pkg/utils"
)

// IpAliveScanner 实现 IP 存活扫描：根据 task.Params 中的协议开关组装一个
// MultiProber (ICMP/ARP/TCP Connect/TCP SYN 中的若干个)，对目标 IP 集合
// 并发探测。
type IpAliveScanner struct{}

func NewIpAliveScanner() *IpAliveScanner {
	return &IpAliveScanner{}
}

func (s *IpAliveScanner) Name() model.TaskType {
	return model.TaskTypeIpAliveScan
}

func (s *IpAliveScanner) Run(ctx context.Context, task *model.Task) ([]*model.TaskResult, error) {
	// 1. 解析目标 (支持 CIDR 和 单个IP)
	// 这里简化处理，假设 Target 是单个IP或CIDR
	// 实际生产中需要 IP 解析库
	ips, err := parseTarget(task.Target)
	if err != nil {
		return nil, err
	}

	prober := buildProber(task)
	concurrency := paramInt(task.Params, "concurrency", 1000)
	resolveHostname := paramBool(task.Params, "resolve_hostname", false)
	timeout := task.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	var results []*model.TaskResult
	var mu sync.Mutex
	var wg sync.WaitGroup

	// AdaptiveLimiter 取代固定容量的信号量：对大网段做存活扫描时，一次性拉满
	// concurrency 容易在本机出口或对端网络设备上造成丢包，进而让探测本身变得
	// 不可靠。失败 (超时/不可达) 时乘性回退并发度，连续成功时再缓慢爬升，
	// 让实际并发贴着网络能承受的水平走，而不是一个写死的常数。
	minConcurrency := concurrency / 10
	if minConcurrency < 1 {
		minConcurrency = 1
	}
	limiter := qos.NewAdaptiveLimiter(concurrency, minConcurrency, concurrency)

	// RttEstimator 跟踪本次扫描已观测到的 RTT，按 RFC 6298 给出建议超时
	// (RTO)。目标网络延迟抖动较大时，固定的 task.Timeout 可能比实际 RTT 还
	// 短，提高探测超时能避免把慢但存活的主机误判为离线。
	rtt := qos.NewRttEstimator()

	for _, ip := range ips {
		if err := limiter.Acquire(ctx); err != nil {
			break
		}
		wg.Add(1)

		go func(targetIP string) {
			defer wg.Done()
			defer limiter.Release()

			probeTimeout := timeout
			if est := rtt.Timeout(); est > probeTimeout {
				probeTimeout = est
			}

			started := time.Now()
			res, err := prober.Probe(ctx, targetIP, probeTimeout)
			if err != nil || res == nil || !res.Alive {
				limiter.OnFailure()
				return
			}
			limiter.OnSuccess()
			if res.Latency > 0 {
				rtt.Update(res.Latency)
			}

			ipResult := model.IpAliveResult{
				IP:      targetIP,
				Alive:   true,
				Latency: res.Latency,
				TTL:     res.TTL,
			}
			if resolveHostname {
				if names, err := net.LookupAddr(targetIP); err == nil && len(names) > 0 {
					ipResult.Hostname = names[0]
				}
			}

			result := &model.TaskResult{
				TaskID:    task.ID,
				Status:    model.TaskStatusCompleted,
				Data:      ipResult,
				StartTime: started,
				EndTime:   time.Now(),
			}
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(ip)
	}

	wg.Wait()
	return results, nil
}

// buildProber 根据任务参数中的协议开关组装探测器集合。三个开关都未打开时
// (auto 策略) 回退到 ICMP + TCP Connect 的默认组合，这是多数目标都能响应
// 且无需特权 ARP 支持的最小可用集合。
func buildProber(task *model.Task) Prober {
	enableArp := paramBool(task.Params, "enable_arp", false)
	enableIcmp := paramBool(task.Params, "enable_icmp", false)
	enableTcp := paramBool(task.Params, "enable_tcp", false)
	tcpPorts := paramIntSlice(task.Params, "tcp_ports", []int{22, 23, 80, 139, 443, 445, 3389})

	var probers []Prober
	if enableArp {
		probers = append(probers, NewArpProber())
	}
	if enableIcmp {
		probers = append(probers, NewIcmpProber())
	}
	if enableTcp {
		// 同时尝试半开 SYN 探测：比全连接更快得到回应，且不需要完成三次
		// 握手；两者并发执行，任一命中都判定为存活。
		probers = append(probers, NewTcpConnectProber(tcpPorts), NewTcpSynProber(tcpPorts))
	}

	if len(probers) == 0 {
		probers = []Prober{NewIcmpProber(), NewTcpConnectProber(tcpPorts)}
	}

	return NewMultiProber(probers...)
}

func paramBool(params map[string]interface{}, key string, def bool) bool {
	if v, ok := params[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

func paramInt(params map[string]interface{}, key string, def int) int {
	if v, ok := params[key]; ok {
		if n, ok := v.(int); ok && n > 0 {
			return n
		}
	}
	return def
}

func paramIntSlice(params map[string]interface{}, key string, def []int) []int {
	if v, ok := params[key]; ok {
		if s, ok := v.([]int); ok && len(s) > 0 {
			return s
		}
	}
	return def
}

// parseTarget 解析目标 IP (简化版)
func parseTarget(target string) ([]string, error) {
	// 去掉误带的端口/多余空白，折叠 IPv4-mapped IPv6，CIDR 不受影响
	target = utils.NormalizeIP(target)

	// 如果是 CIDR
	if _, ipNet, err := net.ParseCIDR(target); err == nil {
		var ips []string
		for ip := ipNet.IP.Mask(ipNet.Mask); ipNet.Contains(ip); inc(ip) {
			ips = append(ips, ip.String())
		}
		// 移除网络地址和广播地址 (通常是第一个和最后一个)
		if len(ips) > 2 {
			return ips[1 : len(ips)-1], nil
		}
		return ips, nil
	}

	// 如果是单个 IP
	if ip := net.ParseIP(target); ip != nil {
		return []string{ip.String()}, nil
	}

	// 尝试作为域名解析
	addrs, err := net.LookupHost(target)
	if err == nil && len(addrs) > 0 {
		return addrs, nil
	}

	return nil, fmt.Errorf("invalid target: %s", target)
}

func inc(ip net.IP) {
	for j := len(ip) - 1; j >= 0; j-- {
		ip[j]++
		if ip[j] > 0 {
			break
		}
	}
}
