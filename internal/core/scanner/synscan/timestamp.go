package synscan

import "time"

// Packed timestamp encoding: the sender embeds a truncated wall-clock time in
// the TCP sequence number of a SYN. A compliant peer echoes seq+1 in its
// SYN/ACK, so the interval can be recovered from the ACK field without any
// side channel. Representable span is 16s at 16us resolution.
const (
	secondsMask      = 0xF
	secondsShift     = 28
	microsecondMask  = 0xFFFFFFF0
	microsecondShift = 4

	// MaxRTT is the packed-encoding ceiling used throughout the driver as
	// both the conservative default RTT and the clamp on any measured
	// interval.
	MaxRTT uint32 = 1 << 28

	microsPerSecond = 1_000_000
)

// Now returns the packed, host-order timestamp for the current wall time.
// Callers needing the network-order wire form must byte-swap at the
// boundary (see packet.go, which writes it directly into the sequence
// field via encoding/binary).
func Now() uint32 {
	return encode(time.Now())
}

func encode(t time.Time) uint32 {
	sec := uint32(t.Unix()) & secondsMask
	usec := uint32(t.Nanosecond()/1000) & microsecondMask
	return (sec << secondsShift) | (usec >> microsecondShift)
}

// Decode inverts the pack operation. microseconds is normalized into
// [0, 1_000_000); seconds saturates to {2, 0} if the packed value decodes
// to anything larger. The 4-bit seconds field holds 0..15, so this applies
// to a freshly packed Now() as well as to a difference of two packed
// values.
func Decode(packed uint32) (seconds, microseconds uint32) {
	seconds = packed >> secondsShift
	microseconds = (packed & (microsecondMask >> microsecondShift)) << microsecondShift
	if microseconds >= microsPerSecond {
		microseconds = microseconds % microsPerSecond
	}
	if seconds > 2 {
		seconds, microseconds = 2, 0
	}
	return seconds, microseconds
}

// DecodeDuration is a convenience wrapper used by the driver to turn a
// packed interval into a time.Duration for deadline arithmetic.
func DecodeDuration(packed uint32) time.Duration {
	s, us := Decode(packed)
	return time.Duration(s)*time.Second + time.Duration(us)*time.Microsecond
}

// rawDelta computes now-then as a cyclic (sequence-number-style)
// difference over the packed clock's 32-bit space: wraps naturally via
// uint32 subtraction, and a diff past the halfway point of the space is
// treated as `then` being ahead of `now` (clock jitter) and reported as
// zero. Unlike Elapsed, this is not clamped to MaxRTT — IsDead needs the
// true interval to compare against 2*budget, which can legitimately
// exceed MaxRTT when budget itself is MaxRTT.
func rawDelta(then uint32) uint32 {
	now := Now()
	diff := now - then
	if diff > 1<<31 {
		return 0
	}
	return diff
}

// Elapsed returns now - then in the packed encoding, clamped to [0, MaxRTT].
func Elapsed(then uint32) uint32 {
	diff := rawDelta(then)
	if diff > MaxRTT {
		return MaxRTT
	}
	return diff
}

// IsDead reports whether the interval since `then` exceeds 2*budget, the
// expiry policy the probe table uses to age out unanswered probes. It
// compares against the unclamped delta so that the conservative default
// budget (MaxRTT, used when RTT warm-up is skipped) still ages probes out
// once genuinely more than 2*MaxRTT has elapsed.
func IsDead(then uint32, budget uint32) bool {
	threshold := uint64(budget) * 2
	return uint64(rawDelta(then)) > threshold
}
