package synscan

import (
	"context"
	"net"
	"testing"
	"time"
)

// fakeSender records every segment handed to Send, keyed by call order.
type fakeSender struct {
	sent []sentSegment
	fail bool
}

type sentSegment struct {
	dst     net.IP
	segment []byte
}

func (f *fakeSender) Send(dst net.IP, segment []byte) error {
	if f.fail {
		return errSendFailed
	}
	cp := append([]byte(nil), segment...)
	f.sent = append(f.sent, sentSegment{dst: dst, segment: cp})
	return nil
}

func (f *fakeSender) Close() error { return nil }

var errSendFailed = &sendError{"fake send failure"}

type sendError struct{ msg string }

func (e *sendError) Error() string { return e.msg }

// fakeCapture replays a fixed queue of frames, one per Next call, then
// reports no more frames available.
type fakeCapture struct {
	frames [][]byte
	idx    int
}

func (f *fakeCapture) Next(_ time.Duration) ([]byte, bool) {
	if f.idx >= len(f.frames) {
		return nil, false
	}
	frame := f.frames[f.idx]
	f.idx++
	return frame, true
}

func (f *fakeCapture) Close() error { return nil }

// fakeSink records sink callbacks for assertion.
type fakeSink struct {
	openPorts []uint16
	statuses  [][2]int
	completed bool
	fullScan  bool
}

func (f *fakeSink) AddPort(port uint16, _ string) { f.openPorts = append(f.openPorts, port) }
func (f *fakeSink) Status(current, total int)     { f.statuses = append(f.statuses, [2]int{current, total}) }
func (f *fakeSink) ScanComplete(_ bool, _ string, fullScan bool) {
	f.completed = true
	f.fullScan = fullScan
}

func newTestContext(capture CaptureReader, sender RawSender, sink ReporterSink) *ScanContext {
	return &ScanContext{
		Family:    FamilyIPv4,
		Src:       net.ParseIP("192.0.2.10"),
		Dst:       net.ParseIP("10.0.0.1"),
		MagicPort: 4500,
		Sender:    sender,
		Capture:   capture,
		Sink:      sink,
		Table:     NewTable(),
		RTT:       MaxRTT,
	}
}

// buildSynAckFrame constructs an IPv4 frame (no datalink header, as if
// already stripped) carrying a SYN/ACK whose ack field is sentAt+1, for
// use as captured reply input to processFrame/sniffPass. peerIP/peerPort
// describe the replying side (IP/TCP source); myIP/myPort the probing
// side (IP/TCP destination).
func buildSynAckFrame(peerIP, myIP net.IP, peerPort, myPort uint16, sentAt uint32) []byte {
	segment, _ := buildIPv4(peerIP, myIP, peerPort, myPort, 0, sentAt+1, flagSYN|flagACK, ipv4WindowSize)
	return segment
}

func buildRSTFrame(peerIP, myIP net.IP, peerPort, myPort uint16) []byte {
	segment, _ := buildIPv4(peerIP, myIP, peerPort, myPort, 0, 0, flagRST|flagACK, ipv4WindowSize)
	return segment
}

// Peer replies SYN/ACK with ack=S+1 for the only probed port: sink
// receives AddPort(22, "tcp"); a RST is transmitted with seq = S+1; the
// probe table is empty afterward.
func TestScenario_OpenPortReportedAndTornDown(t *testing.T) {
	sentAt := Now()
	frame := buildSynAckFrame(net.ParseIP("10.0.0.1"), net.ParseIP("192.0.2.10"), 22, 4500, sentAt)

	sender := &fakeSender{}
	capture := &fakeCapture{frames: [][]byte{frame}}
	sink := &fakeSink{}
	sc := newTestContext(capture, sender, sink)
	sc.Table.InsertOrBump(22, sentAt)

	sniffPass(sc)

	if len(sink.openPorts) != 1 || sink.openPorts[0] != 22 {
		t.Fatalf("expected AddPort(22), got %v", sink.openPorts)
	}
	if _, ok := sc.Table.Find(22); ok {
		t.Fatalf("probe table should be empty for port 22 after sniff")
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected exactly one RST transmitted, got %d", len(sender.sent))
	}

	rstSeq := sender.sent[0].segment[ipv4HeaderLen+4 : ipv4HeaderLen+8]
	seq := uint32(rstSeq[0])<<24 | uint32(rstSeq[1])<<16 | uint32(rstSeq[2])<<8 | uint32(rstSeq[3])
	if seq != sentAt+1 {
		t.Fatalf("RST sequence = %d, want %d (ack(synack)+1)", seq, sentAt+1)
	}
}

// Scenario 3: peer replies with RST (not SYN/ACK) — sink receives nothing,
// but the probe is still concluded (removed) regardless of flag classification.
func TestScenario_RSTReplyConcludesProbeSilently(t *testing.T) {
	frame := buildRSTFrame(net.ParseIP("10.0.0.1"), net.ParseIP("192.0.2.10"), 22, 4500)

	sender := &fakeSender{}
	capture := &fakeCapture{frames: [][]byte{frame}}
	sink := &fakeSink{}
	sc := newTestContext(capture, sender, sink)
	sc.Table.InsertOrBump(22, Now())

	sniffPass(sc)

	if len(sink.openPorts) != 0 {
		t.Fatalf("RST reply must not be reported as open, got %v", sink.openPorts)
	}
	if _, ok := sc.Table.Find(22); ok {
		t.Fatalf("probe must be concluded even on a non-SYN/ACK reply")
	}
	if len(sender.sent) != 0 {
		t.Fatalf("no RST teardown should be sent for an already-closed port")
	}
}

// Scenario 4: loopback targets are skipped before any socket is opened.
func TestScenario_LoopbackSkippedSilently(t *testing.T) {
	openRawCalled := false
	openCaptureCalled := false

	opts := Options{
		OpenRaw: func(Family) (RawSender, error) {
			openRawCalled = true
			return &fakeSender{}, nil
		},
		OpenCapture: func(net.IP, uint16) (CaptureReader, net.IP, error) {
			openCaptureCalled = true
			return &fakeCapture{}, net.ParseIP("127.0.0.1"), nil
		},
		Sink: &fakeSink{},
	}

	n, err := Scan(context.Background(), net.ParseIP("127.0.0.1"), []uint16{80}, opts)
	if err != nil {
		t.Fatalf("loopback scan must not error, got %v", err)
	}
	if n != 0 {
		t.Fatalf("loopback scan must report zero ports scanned, got %d", n)
	}
	if openRawCalled || openCaptureCalled {
		t.Fatalf("loopback scan must not open any socket or capture handle")
	}
}

// Scenario 6: RTT warm-up with every well-known port silent returns
// exactly MaxRTT.
func TestScenario_RTTWarmupAllSilent(t *testing.T) {
	sender := &fakeSender{}
	capture := &fakeCapture{} // always empty: every probe goes unanswered
	sc := newTestContext(capture, sender, &fakeSink{})

	rtt := EstimateRTT(sc)
	if rtt != MaxRTT {
		t.Fatalf("EstimateRTT with all probes silent = %d, want MaxRTT (%d)", rtt, MaxRTT)
	}
}

func TestIsFullScanBoundary(t *testing.T) {
	if IsFullScan(65534) {
		t.Fatalf("65534 ports must not be a full scan")
	}
	if !IsFullScan(65535) {
		t.Fatalf("65535 ports must be reported as a full scan")
	}
}
