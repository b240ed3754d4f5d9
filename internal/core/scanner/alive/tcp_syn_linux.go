//go:build linux

package alive

import (
	"context"
	"net"
	"time"

	"neoagent/internal/core/scanner/synscan"
)

// TcpSynProber probes liveness via half-open TCP SYN scanning instead of a
// full connect: a single SYN/ACK on any configured port is enough to call a
// host alive, and the half-open attempt is torn down with a RST before the
// three-way handshake ever completes. RST replies from closed ports are not
// passed to the sink, so they do not mark a host alive.
type TcpSynProber struct {
	Ports []int
}

func NewTcpSynProber(ports []int) *TcpSynProber {
	return &TcpSynProber{Ports: ports}
}

// synAliveSink satisfies synscan.ReporterSink, recording only whether any
// port replied. A single hit is sufficient, so further events after the
// first are ignored.
type synAliveSink struct {
	alive bool
}

func (s *synAliveSink) AddPort(uint16, string)          { s.alive = true }
func (s *synAliveSink) Status(int, int)                 {}
func (s *synAliveSink) ScanComplete(bool, string, bool) {}

func (p *TcpSynProber) Probe(ctx context.Context, ip string, timeout time.Duration) (*ProbeResult, error) {
	dst := net.ParseIP(ip)
	if dst == nil {
		resolved, err := net.ResolveIPAddr("ip", ip)
		if err != nil {
			return nil, err
		}
		dst = resolved.IP
	}

	ports := make([]uint16, 0, len(p.Ports))
	for _, port := range p.Ports {
		ports = append(ports, uint16(port))
	}

	scanCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sink := &synAliveSink{}
	opts := synscan.Options{
		Sink:        sink,
		OpenRaw:     synscan.OpenRaw,
		OpenCapture: synscan.OpenCapture,
	}

	start := time.Now()
	_, err := synscan.Scan(scanCtx, dst, ports, opts)
	if err != nil {
		return nil, err
	}
	if !sink.alive {
		return &ProbeResult{Alive: false}, nil
	}
	return NewProbeResult(true, time.Since(start), 0), nil
}
