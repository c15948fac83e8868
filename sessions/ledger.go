package sessions

import (
	"sync"
	"time"
)

// Submission is one student's redemption of a check-in token.
type Submission struct {
	StudentID   string
	SubmittedAt time.Time
}

// Ledger is the per-session record of redemptions: at most one entry per
// student, never mutated after insertion. All methods are safe for
// concurrent use.
type Ledger struct {
	mu      sync.Mutex
	entries map[string]time.Time
	order   []string
}

func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string]time.Time)}
}

// TryInsert records the student unless an entry already exists. The check
// and the insert happen under one lock, so parallel redemptions of the same
// student yield exactly one entry.
func (l *Ledger) TryInsert(studentID string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.entries[studentID]; ok {
		return false
	}
	l.entries[studentID] = now
	l.order = append(l.order, studentID)
	return true
}

// Len reports the number of recorded submissions.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// ReadSnapshot returns the current submissions in insertion order without
// modifying the ledger.
func (l *Ledger) ReadSnapshot() []Submission {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// SnapshotAndClear drains the ledger, returning everything recorded so far
// in insertion order. Called once, by finalize. A concurrent TryInsert
// either lands fully before the drain (and is included) or fully after
// (and is rejected against the retired session).
func (l *Ledger) SnapshotAndClear() []Submission {
	l.mu.Lock()
	defer l.mu.Unlock()

	subs := l.snapshotLocked()
	l.entries = make(map[string]time.Time)
	l.order = nil
	return subs
}

func (l *Ledger) snapshotLocked() []Submission {
	subs := make([]Submission, 0, len(l.order))
	for _, id := range l.order {
		subs = append(subs, Submission{StudentID: id, SubmittedAt: l.entries[id]})
	}
	return subs
}
