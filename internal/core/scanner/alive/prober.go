package alive

import (
	"context"
	"time"
)

// Prober 定义探测器接口
type Prober interface {
	// Probe 执行探测
	// ip: 目标IP
	// timeout: 超时时间
	// 返回: 探测结果 (存活状态/延迟/TTL)，错误
	Probe(ctx context.Context, ip string, timeout time.Duration) (*ProbeResult, error)
}

// MultiProber 并发组合多个 Prober，只要有一个判定存活即认为目标存活。
// TTL 只有 ICMP 会携带，因此合并时优先保留第一个带 TTL 的结果；延迟取最先
// 返回的存活结果，不做跨协议平均。
type MultiProber struct {
	probers []Prober
}

func NewMultiProber(probers ...Prober) *MultiProber {
	return &MultiProber{probers: probers}
}

// Probe 并发执行所有探测器，等待全部返回 (或 ctx 超时)，合并为单个结果。
func (m *MultiProber) Probe(ctx context.Context, ip string, timeout time.Duration) (*ProbeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resultChan := make(chan *ProbeResult, len(m.probers))

	for _, p := range m.probers {
		go func(prober Prober) {
			res, err := prober.Probe(ctx, ip, timeout)
			if err != nil || res == nil {
				res = &ProbeResult{Alive: false}
			}
			resultChan <- res
		}(p)
	}

	merged := &ProbeResult{Alive: false}
	for i := 0; i < len(m.probers); i++ {
		select {
		case res := <-resultChan:
			if res.Alive {
				merged.Alive = true
				if merged.Latency == 0 {
					merged.Latency = res.Latency
				}
				if merged.TTL == 0 {
					merged.TTL = res.TTL
				}
			}
		case <-ctx.Done():
			if merged.Alive {
				return merged, nil
			}
			return merged, ctx.Err()
		}
	}

	return merged, nil
}
