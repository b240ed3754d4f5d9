package synscan

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"time"
)

// magicPortBase and magicPortSpan pick a random ephemeral source port in
// [4441, 4441+1200) for each scan. That port doubles as the BPF filter key,
// so only our own traffic is ever captured.
const (
	magicPortBase = 4441
	magicPortSpan = 1200

	statusInterval = 100  // emit a status update every N ports scanned
	fullScanPorts  = 65535
)

// ReporterSink is the external sink the driver reports to: open ports,
// periodic status, and end-of-scan markers. Implementations live in the
// host layer (internal/core/reporter).
type ReporterSink interface {
	AddPort(port uint16, proto string)
	Status(current, total int)
	ScanComplete(scanned bool, scannerTag string, fullScan bool)
}

// ScanContext holds everything the scan loop mutates or reads during a
// single scan: immutable addressing/handle fields, and the mutable probe
// table + current RTT estimate. It is owned entirely by the driver and
// never shared across goroutines.
type ScanContext struct {
	Family    Family
	Src, Dst  net.IP
	MagicPort uint16

	Sender  RawSender
	Capture CaptureReader
	Sink    ReporterSink

	Table *Table
	RTT   uint32

	rng *rand.Rand
}

// Options configures a Scan invocation. OpenRaw and OpenCapture are
// injected rather than hardcoded so tests can substitute fakes and so the
// platform-specific implementations (raw_linux.go, capture_linux.go) stay
// decoupled from this file.
type Options struct {
	RTTWarmup   bool
	Sink        ReporterSink
	OpenRaw     OpenRawFunc
	OpenCapture OpenCaptureFunc
	Rand        *rand.Rand
}

// Scan is the library entry point: it validates the target, acquires the
// raw socket and capture handle, runs the scan to completion, and
// releases all resources on every exit path, including errors. The
// returned int is the number of ports scanned before any fatal failure
// (zero on setup failure).
func Scan(ctx context.Context, dst net.IP, ports []uint16, opts Options) (int, error) {
	if dst.IsLoopback() {
		// Loopback targets are skipped silently, before any socket is
		// opened — not an error.
		return 0, nil
	}

	family := FamilyIPv4
	if dst.To4() == nil {
		family = FamilyIPv6
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	magicPort := uint16(magicPortBase + rng.Intn(magicPortSpan))

	capture, src, err := opts.OpenCapture(dst, magicPort)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSetupFailed, err)
	}
	raw, err := opts.OpenRaw(family)
	if err != nil {
		capture.Close()
		return 0, fmt.Errorf("%w: %v", ErrSetupFailed, err)
	}

	sc := &ScanContext{
		Family:    family,
		Src:       src,
		Dst:       dst,
		MagicPort: magicPort,
		Sender:    raw,
		Capture:   capture,
		Sink:      opts.Sink,
		Table:     NewTable(),
		RTT:       MaxRTT,
		rng:       rng,
	}
	defer sc.Sender.Close()
	defer sc.Capture.Close()

	if opts.RTTWarmup {
		sc.RTT = EstimateRTT(sc)
	}

	n, err := runScan(ctx, sc, ports)

	if sc.Sink != nil {
		sc.Sink.ScanComplete(err == nil, "synscan", IsFullScan(len(ports)))
	}
	return n, err
}

// IsFullScan reports whether a port count represents a scan of the entire
// port space; the marker is surfaced via ScanComplete.
func IsFullScan(n int) bool {
	return n >= fullScanPorts
}

// runScan drives the pairwise send/sniff interleave and retry phase against
// an already-open ScanContext. It is split out from Scan so tests can
// exercise the loop against fake RawSender/CaptureReader/ReporterSink
// implementations without opening real sockets.
func runScan(ctx context.Context, sc *ScanContext, ports []uint16) (int, error) {
	scanned := 0

	for i := 0; i < len(ports); i += 2 {
		if err := sendSyn(sc, ports[i]); err != nil {
			return scanned, err
		}
		scanned++
		maybeReportStatus(sc, scanned, len(ports))

		if i+1 < len(ports) {
			if err := sendSyn(sc, ports[i+1]); err != nil {
				return scanned, err
			}
			scanned++
			maybeReportStatus(sc, scanned, len(ports))
			sniffPass(sc)
		}
	}

	if sc.Family == FamilyIPv4 {
		if err := retryPhase(sc); err != nil {
			return scanned, err
		}
	}
	// The retry phase runs only for IPv4. For IPv6 the scan ends once the
	// port list has been sent and sniffed; unanswered IPv6 probes are not
	// retransmitted.

	return scanned, nil
}

// sendSyn generates a fresh send-timestamp, records the probe, and
// transmits the SYN. A transmit failure is fatal to the scan.
func sendSyn(sc *ScanContext, port uint16) error {
	sentAt := Now()
	sc.Table.InsertOrBump(port, sentAt)

	var segment []byte
	var err error
	if sc.Family == FamilyIPv4 {
		segment, err = BuildIPv4SYN(sc.Src, sc.Dst, sc.MagicPort, port, sentAt)
	} else {
		segment = BuildIPv6SYN(sc.MagicPort, port, sentAt)
	}
	if err != nil {
		return err
	}
	return sc.Sender.Send(sc.Dst, segment)
}

// sniffPass pulls frames from the capture handle for up to
// decode(rtt)/8 (clamped to 1s), classifying each as open/closed and
// always concluding the probe for whichever port replied.
func sniffPass(sc *ScanContext) {
	deadline := DecodeDuration(sc.RTT) / 8
	if deadline > time.Second {
		deadline = time.Second
	}

	drainDeadline := deadline
	for {
		frame, ok := sc.Capture.Next(drainDeadline)
		if !ok {
			return
		}
		processFrame(sc, frame)
		// drain any immediately available frames after the first
		drainDeadline = 0
	}
}

func processFrame(sc *ScanContext, frame []byte) {
	var srcPort uint16
	var ack uint32
	var isSynAck, ok bool

	if sc.Family == FamilyIPv4 {
		srcPort, ack, isSynAck, ok = ParseIPv4(frame)
	} else {
		srcPort, ack, isSynAck, ok = ParseIPv6(frame)
	}
	if !ok {
		return
	}

	if isSynAck {
		if sc.Sink != nil {
			sc.Sink.AddPort(srcPort, "tcp")
		}
		rstSeq := ack + 1
		var rst []byte
		if sc.Family == FamilyIPv4 {
			rst, _ = BuildIPv4RST(sc.Src, sc.Dst, sc.MagicPort, srcPort, rstSeq)
		} else {
			rst = BuildIPv6RST(sc.MagicPort, srcPort, rstSeq)
		}
		_ = sc.Sender.Send(sc.Dst, rst)

		rtt := Elapsed(ack)
		if rtt > MaxRTT {
			rtt = MaxRTT
		}
		sc.RTT = rtt
	}

	// A non-SYN/ACK reply (e.g. RST from a closed port) still concludes
	// the probe — only the absence of any reply triggers a retry.
	sc.Table.Remove(srcPort)
}

// retryPhase drains the probe table: each round re-sends up to two expired
// probes back to back, then sends once more and runs one sniff pass, so a
// round transmits up to three SYNs per sniff. The final send-and-sniff
// runs unconditionally even when the inner loop's last Expire() call
// returned no candidate, in which case it sends one extra probe to port 0;
// nothing guards against that.
func retryPhase(sc *ScanContext) error {
	for sc.Table.Len() > 0 {
		retry, ok := sc.Table.Expire(sc.RTT)

		for k := 0; k < 2; k++ {
			if !ok {
				break
			}
			if err := sendSyn(sc, retry); err != nil {
				return err
			}
			retry, ok = sc.Table.Expire(sc.RTT)
		}

		if err := sendSyn(sc, retry); err != nil {
			return err
		}
		sniffPass(sc)
	}
	return nil
}

func maybeReportStatus(sc *ScanContext, current, total int) {
	if sc.Sink == nil {
		return
	}
	if current%statusInterval == 0 {
		sc.Sink.Status(current, total)
	}
}
