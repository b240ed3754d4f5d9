package synscan

import "sync"

// NumRetries is the maximum number of retransmissions a probe receives
// before it is dropped without a reply.
const NumRetries = 2

// Probe is an outstanding SYN probe; at most one Probe per dport exists in
// a Table at any instant. For the ports the driver scans, retries stays
// <= NumRetries. InsertOrBump itself enforces neither bound nor dport != 0:
// the driver's retry phase can record port 0 and bump it on every round
// until it expires.
type Probe struct {
	Dport   uint16
	SentAt  uint32
	Retries int
}

// Table is a map dport -> *Probe supporting insert-or-bump, find, remove,
// and an expiry sweep. A hash map is a natural fit here: the per-port
// uniqueness invariant is already the map key, and iteration order carries
// no semantic weight.
//
// The mutex makes every method safe to call from more than one goroutine.
// The scan driver, the only user of a Table, calls it from a single
// goroutine; the RTT warm-up estimator (rtt.go) does not use a Table.
type Table struct {
	mu      sync.Mutex
	entries map[uint16]*Probe
}

// NewTable returns an empty probe table.
func NewTable() *Table {
	return &Table{entries: make(map[uint16]*Probe)}
}

// InsertOrBump inserts a new probe with retries=0, or — if dport is
// already tracked — bumps its retry count and overwrites sentAt.
func (t *Table) InsertOrBump(dport uint16, sentAt uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if p, ok := t.entries[dport]; ok {
		p.Retries++
		p.SentAt = sentAt
		return
	}
	t.entries[dport] = &Probe{Dport: dport, SentAt: sentAt, Retries: 0}
}

// Find returns the probe tracked for dport, if any.
func (t *Table) Find(dport uint16) (Probe, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.entries[dport]
	if !ok {
		return Probe{}, false
	}
	return *p, true
}

// Remove deletes the probe for dport. No-op if absent.
func (t *Table) Remove(dport uint16) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, dport)
}

// Len reports the number of outstanding probes.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Expire sweeps every probe against IsDead(sentAt, rtt). A dead probe with
// retries < NumRetries is kept and reported as a retransmission candidate;
// a dead probe that has exhausted its retries is removed. Only the
// last-seen candidate is returned — the driver retries one port at a
// time, matching the reference's one-candidate-per-sweep cadence.
func (t *Table) Expire(rtt uint32) (uint16, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var candidate uint16
	found := false

	for dport, p := range t.entries {
		if !IsDead(p.SentAt, rtt) {
			continue
		}
		if p.Retries < NumRetries {
			candidate = dport
			found = true
		} else {
			delete(t.entries, dport)
		}
	}
	return candidate, found
}
