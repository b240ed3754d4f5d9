package synscan

import "testing"

func TestInsertOrBumpThenRemoveLeavesTableUnchanged(t *testing.T) {
	tbl := NewTable()
	if tbl.Len() != 0 {
		t.Fatalf("new table should be empty")
	}

	tbl.InsertOrBump(22, Now())
	tbl.Remove(22)

	if tbl.Len() != 0 {
		t.Fatalf("table should be empty after insert+remove, got len=%d", tbl.Len())
	}
}

func TestInsertOrBumpSecondCallBumpsRetries(t *testing.T) {
	tbl := NewTable()
	t1 := Now()
	tbl.InsertOrBump(22, t1)

	t2 := t1 + 1
	tbl.InsertOrBump(22, t2)

	p, ok := tbl.Find(22)
	if !ok {
		t.Fatalf("expected probe for port 22")
	}
	if p.SentAt != t2 {
		t.Fatalf("sentAt should be overwritten to t2, got %d want %d", p.SentAt, t2)
	}
	if p.Retries != 1 {
		t.Fatalf("retries should be 1 after second insert, got %d", p.Retries)
	}
}

func TestAtMostOneEntryPerPort(t *testing.T) {
	tbl := NewTable()
	for i := 0; i < 5; i++ {
		tbl.InsertOrBump(80, Now())
	}
	if tbl.Len() != 1 {
		t.Fatalf("expected exactly one entry for a repeatedly-bumped port, got %d", tbl.Len())
	}
}

func TestExpireRemovesProbeAfterNumRetries(t *testing.T) {
	tbl := NewTable()
	// sentAt far enough in the past to be dead against a tiny budget.
	stale := Now() - 1000
	tbl.InsertOrBump(53, stale)

	budget := uint32(1)

	// First two expirations should return 53 as a retry candidate and bump
	// its retry count implicitly via the driver calling InsertOrBump again;
	// here we simulate the driver's retry behavior directly.
	port, ok := tbl.Expire(budget)
	if !ok || port != 53 {
		t.Fatalf("expected port 53 as first expiry candidate, got %d ok=%v", port, ok)
	}

	p, _ := tbl.Find(53)
	if p.Retries != 0 {
		t.Fatalf("Expire must not itself mutate retries, got %d", p.Retries)
	}

	tbl.InsertOrBump(53, stale) // retries -> 1
	tbl.InsertOrBump(53, stale) // retries -> 2

	// Now retries == NumRetries; a dead probe at this point is removed
	// rather than returned as a candidate.
	_, ok = tbl.Expire(budget)
	if ok {
		t.Fatalf("expected no further candidate once retries == NumRetries")
	}
	if tbl.Len() != 0 {
		t.Fatalf("expected probe to be dropped after exhausting retries, len=%d", tbl.Len())
	}
}

func TestFindMissingPort(t *testing.T) {
	tbl := NewTable()
	if _, ok := tbl.Find(1); ok {
		t.Fatalf("expected no probe for untracked port")
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	tbl := NewTable()
	tbl.Remove(9999) // must not panic
}
