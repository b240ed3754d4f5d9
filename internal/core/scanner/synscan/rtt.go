package synscan

import "time"

// wellKnownPorts is the fixed candidate list probed during RTT warm-up,
// chosen for being likely to get a reply (open or closed) from most hosts.
var wellKnownPorts = []uint16{
	21, 22, 34, 25, 53, 79, 80, 110, 113, 135,
	139, 143, 264, 389, 443, 993, 1454, 1723, 3389, 8080,
}

const (
	rttWarmupCollectLimit = 3
	rttWarmupSampleCount  = 10
	rttWarmupMaxMisses    = 10
	rttWarmupReplyWindow  = time.Second
)

// EstimateRTT implements the warm-up routine: walk the well-known-port
// list collecting up to three replying ports, then round-robin 10 fresh
// SYNs across them, tracking the two largest observed intervals so a
// single outlier doesn't skew the estimate. Returns MaxRTT if nothing
// ever replies. Warm-up is opt-in via Options.RTTWarmup — most scans are
// fine with the conservative fixed MaxRTT budget.
func EstimateRTT(sc *ScanContext) uint32 {
	replied := collectRepliers(sc)
	if len(replied) == 0 {
		return MaxRTT
	}

	var max, maxMax uint32
	misses := 0
	idx := 0

	for sample := 0; sample < rttWarmupSampleCount; sample++ {
		port := replied[idx%len(replied)]
		idx++

		sentAt := Now()
		if err := sendProbe(sc, port, sentAt); err != nil {
			return MaxRTT
		}

		interval, ok := waitForAnyReply(sc, rttWarmupReplyWindow)
		if !ok {
			misses++
			if misses >= rttWarmupMaxMisses {
				return MaxRTT
			}
			continue
		}

		// If the new sample blows past maxMax by more than 2x, treat it as
		// an outlier: keep the previous maxMax as the smoothed max rather
		// than letting one spike dominate. Otherwise shift the window.
		if maxMax != 0 && interval > maxMax*2 {
			max = maxMax
		} else {
			max = maxMax
			maxMax = interval
		}
	}

	if max == 0 {
		return MaxRTT
	}
	return max
}

// collectRepliers sends a SYN to each well-known port in turn and records
// up to rttWarmupCollectLimit ports that produced any TCP reply.
func collectRepliers(sc *ScanContext) []uint16 {
	var replied []uint16
	for _, port := range wellKnownPorts {
		if len(replied) >= rttWarmupCollectLimit {
			break
		}
		sentAt := Now()
		if err := sendProbe(sc, port, sentAt); err != nil {
			continue
		}
		if _, ok := waitForAnyReply(sc, rttWarmupReplyWindow); ok {
			replied = append(replied, port)
		}
	}
	return replied
}

// waitForAnyReply pulls frames until the deadline, returning the elapsed
// packed interval of the first frame that parses as a reply to any port,
// regardless of SYN/ACK classification (the warm-up only cares about
// measuring the channel's timing, not which ports are open).
func waitForAnyReply(sc *ScanContext, deadline time.Duration) (uint32, bool) {
	frame, ok := sc.Capture.Next(deadline)
	if !ok {
		return 0, false
	}

	var ack uint32
	var parsedOK bool
	if sc.Family == FamilyIPv4 {
		_, ack, _, parsedOK = ParseIPv4(frame)
	} else {
		_, ack, _, parsedOK = ParseIPv6(frame)
	}
	if !parsedOK {
		return 0, false
	}
	return Elapsed(ack), true
}

func sendProbe(sc *ScanContext, port uint16, sentAt uint32) error {
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
