// Package metrics keeps process-wide data-quality counters for payment reconciliation.
package metrics

import "sync/atomic"

type Counters struct {
	IdentifiersNormalized     uint64
	ExactMatches              uint64
	TolerantMatches           uint64
	VerificationFailures      uint64
	StorageConflictsRecovered uint64
	InconsistenciesDetected   uint64
}

func New() *Counters {
	return &Counters{}
}

func (c *Counters) IdentifierNormalized() {
	atomic.AddUint64(&c.IdentifiersNormalized, 1)
}

func (c *Counters) ExactMatch() {
	atomic.AddUint64(&c.ExactMatches, 1)
}

func (c *Counters) TolerantMatch() {
	atomic.AddUint64(&c.TolerantMatches, 1)
}

func (c *Counters) VerificationFailed() {
	atomic.AddUint64(&c.VerificationFailures, 1)
}

func (c *Counters) StorageConflictRecovered() {
	atomic.AddUint64(&c.StorageConflictsRecovered, 1)
}

func (c *Counters) InconsistencyDetected() {
	atomic.AddUint64(&c.InconsistenciesDetected, 1)
}

// Snapshot returns the current counter values keyed by metric name.
func (c *Counters) Snapshot() map[string]uint64 {
	return map[string]uint64{
		"identifiers_normalized":      atomic.LoadUint64(&c.IdentifiersNormalized),
		"exact_matches":               atomic.LoadUint64(&c.ExactMatches),
		"tolerant_matches":            atomic.LoadUint64(&c.TolerantMatches),
		"verification_failures":       atomic.LoadUint64(&c.VerificationFailures),
		"storage_conflicts_recovered": atomic.LoadUint64(&c.StorageConflictsRecovered),
		"inconsistencies_detected":    atomic.LoadUint64(&c.InconsistenciesDetected),
	}
}
