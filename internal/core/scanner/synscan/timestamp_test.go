package synscan

import "testing"

func TestDecodeNowNormalized(t *testing.T) {
	packed := Now()
	sec, usec := Decode(packed)

	if sec > 2 {
		t.Fatalf("decoded seconds out of range: %d", sec)
	}
	if usec >= 1_000_000 {
		t.Fatalf("decoded microseconds not normalized: %d", usec)
	}
}

func TestDecodeSaturatesLargeSeconds(t *testing.T) {
	// 0xF seconds (15) packed with zero microseconds should saturate to {2, 0}.
	packed := uint32(0xF) << secondsShift
	sec, usec := Decode(packed)
	if sec != 2 || usec != 0 {
		t.Fatalf("expected saturation to {2,0}, got {%d,%d}", sec, usec)
	}
}

func TestElapsedBounds(t *testing.T) {
	now := Now()
	if e := Elapsed(now); e > MaxRTT {
		t.Fatalf("Elapsed(now) should be small, got %d", e)
	}

	future := now + 1000
	if e := Elapsed(future); e != 0 {
		t.Fatalf("Elapsed of a future timestamp should clamp to 0, got %d", e)
	}
}

func TestIsDeadBoundary(t *testing.T) {
	now := Now()
	if IsDead(now, MaxRTT) {
		t.Fatalf("a fresh timestamp must not be dead")
	}

	stale := now - uint32(3*int64(MaxRTT))
	if !IsDead(stale, MaxRTT) {
		t.Fatalf("a timestamp 3x past the budget must be dead")
	}
}
