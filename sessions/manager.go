package sessions

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

const (
	tokenBytes = 16 // 128 bits of entropy, hex encoded

	// A faculty member regenerating a QR a few times before closing the old
	// ones is the only legitimate multi-session case.
	maxActivePerClass = 4

	// Trailing window reported as "recent activity" in detailed status.
	recentWindow = 30 * time.Second

	// Finalized sessions keep answering status polls for this long, so a
	// poll racing a finalize never errors.
	terminalGrace = 60 * time.Second

	maxStudentIDLen = 64
)

var (
	ErrUnknownToken     = errors.New("unknown or expired token")
	ErrSessionClosed    = errors.New("session already finalized")
	ErrInvalidStudentID = errors.New("invalid student id")
	ErrTooManySessions  = errors.New("too many active sessions for this class")
)

// Session is the public view of a check-in session. The token is its only
// external handle.
type Session struct {
	Token     string
	ClassID   string
	Subject   string
	CreatedAt time.Time
}

// ValidationURL builds the QR-renderable payload: the URL a scanning
// student lands on, with the token embedded.
func (s Session) ValidationURL(base string) string {
	return strings.TrimRight(base, "/") + "/qr/validate?token=" + s.Token
}

// RedeemResult reports the outcome of one redemption. A duplicate scan is a
// success with AlreadyRecorded set, not an error.
type RedeemResult struct {
	Accepted        bool
	AlreadyRecorded bool
}

// StatusSnapshot is one answer to a status poll. StudentIDs and the recent
// fields are populated only for detailed requests.
type StatusSnapshot struct {
	Count            int
	StudentIDs       []string
	RecentCount      int
	RecentStudentIDs []string
}

// FinalizeResult reports the bulk conversion of a session's ledger into
// attendance records. Marked + len(Errors) always equals the size of the
// ledger snapshot taken at finalize time.
type FinalizeResult struct {
	Marked     int
	StudentIDs []string
	Errors     []string
}

type sessionState int

const (
	stateActive sessionState = iota
	stateFinalized
)

type session struct {
	token       string
	classID     string
	subject     string
	createdAt   time.Time
	state       sessionState
	ledger      *Ledger
	retiredAt   time.Time
	finalRoster []string
}

// Manager owns the token lifecycle: create, redeem, status, finalize.
// Sessions live in memory only; the permanent records produced by finalize
// go through the Store.
type Manager struct {
	store    Store
	mu       sync.RWMutex
	sessions map[string]*session
	now      func() time.Time
}

func NewManager(store Store) *Manager {
	return &Manager{
		store:    store,
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// Create opens a new ACTIVE session for the class with an empty ledger and
// returns its token.
func (m *Manager) Create(classID string) (Session, error) {
	subject, err := m.store.ClassInfo(classID)
	if err != nil {
		return Session{}, err
	}

	token, err := newToken()
	if err != nil {
		return Session{}, fmt.Errorf("generating token: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked()

	active := 0
	for _, s := range m.sessions {
		if s.classID == classID && s.state == stateActive {
			active++
		}
	}
	if active >= maxActivePerClass {
		return Session{}, ErrTooManySessions
	}

	s := &session{
		token:     token,
		classID:   classID,
		subject:   subject,
		createdAt: m.now(),
		ledger:    NewLedger(),
	}
	m.sessions[token] = s

	log.Printf("Created check-in session for class %s", classID)
	return s.view(), nil
}

// Lookup returns the session behind a token if it is still ACTIVE.
func (m *Manager) Lookup(token string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[token]
	if !ok {
		return Session{}, ErrUnknownToken
	}
	if s.state != stateActive {
		return Session{}, ErrSessionClosed
	}
	return s.view(), nil
}

// Redeem records one student against an ACTIVE session. Idempotent: a
// second scan by the same student succeeds with AlreadyRecorded.
func (m *Manager) Redeem(token, studentID string) (RedeemResult, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" || len(studentID) > maxStudentIDLen ||
		strings.ContainsAny(studentID, " \t\r\n") {
		return RedeemResult{}, ErrInvalidStudentID
	}

	// The read lock is held across the state check and the insert: finalize
	// takes the write lock, so an in-flight redeem completes its insert
	// before the drain can start.
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[token]
	if !ok {
		return RedeemResult{}, ErrUnknownToken
	}
	if s.state != stateActive {
		return RedeemResult{}, ErrSessionClosed
	}

	if !s.ledger.TryInsert(studentID, m.now()) {
		return RedeemResult{AlreadyRecorded: true}, nil
	}
	return RedeemResult{Accepted: true}, nil
}

// Status answers a poll. Read-only and safe under any interleaving with
// Redeem and Finalize. Finalized sessions keep answering with their final
// roster for a grace period, then expire.
func (m *Manager) Status(token string, detailed bool) (StatusSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[token]
	if !ok {
		return StatusSnapshot{}, ErrUnknownToken
	}

	if s.state != stateActive {
		if m.now().Sub(s.retiredAt) > terminalGrace {
			return StatusSnapshot{}, ErrUnknownToken
		}
		snap := StatusSnapshot{Count: len(s.finalRoster)}
		if detailed {
			snap.StudentIDs = append([]string(nil), s.finalRoster...)
			snap.RecentStudentIDs = []string{}
		}
		return snap, nil
	}

	subs := s.ledger.ReadSnapshot()
	snap := StatusSnapshot{Count: len(subs)}
	if !detailed {
		return snap, nil
	}

	cutoff := m.now().Add(-recentWindow)
	snap.StudentIDs = make([]string, 0, len(subs))
	snap.RecentStudentIDs = []string{}
	for _, sub := range subs {
		snap.StudentIDs = append(snap.StudentIDs, sub.StudentID)
		if sub.SubmittedAt.After(cutoff) {
			snap.RecentCount++
			snap.RecentStudentIDs = append(snap.RecentStudentIDs, sub.StudentID)
		}
	}
	return snap, nil
}

// Finalize retires the session and converts every ledger entry into one
// attendance record dated today. Per-student failures are collected, never
// rolled back, and never abort the remaining conversions. Finalizing an
// already-retired session is a no-op success; the UI fires this on every
// navigation-away regardless of prior state.
func (m *Manager) Finalize(token string) (FinalizeResult, error) {
	m.mu.Lock()
	s, ok := m.sessions[token]
	if !ok {
		m.mu.Unlock()
		return FinalizeResult{}, ErrUnknownToken
	}
	if s.state != stateActive {
		m.mu.Unlock()
		return FinalizeResult{Errors: []string{}}, nil
	}

	s.state = stateFinalized
	s.retiredAt = m.now()
	subs := s.ledger.SnapshotAndClear()
	roster := make([]string, 0, len(subs))
	for _, sub := range subs {
		roster = append(roster, sub.StudentID)
	}
	s.finalRoster = roster
	classID := s.classID
	m.mu.Unlock()

	// Record conversion happens outside the manager lock: the session is
	// already terminal, so no submission can sneak in, and redemptions for
	// other sessions must not wait on the database.
	day := m.now()
	result := FinalizeResult{StudentIDs: roster, Errors: []string{}}
	for _, sub := range subs {
		if err := m.store.MarkPresent(classID, sub.StudentID, day); err != nil {
			result.Errors = append(result.Errors, markErrorMessage(sub.StudentID, err))
			continue
		}
		result.Marked++
	}

	log.Printf("Finalized session for class %s: %d marked present, %d errors",
		classID, result.Marked, len(result.Errors))
	return result, nil
}

// Cancel is finalize under another name: the source UI always converts
// whatever the ledger holds, whichever button ended the session.
func (m *Manager) Cancel(token string) (FinalizeResult, error) {
	return m.Finalize(token)
}

func (m *Manager) pruneLocked() {
	now := m.now()
	for token, s := range m.sessions {
		if s.state != stateActive && now.Sub(s.retiredAt) > terminalGrace {
			delete(m.sessions, token)
		}
	}
}

func (s *session) view() Session {
	return Session{
		Token:     s.token,
		ClassID:   s.classID,
		Subject:   s.subject,
		CreatedAt: s.createdAt,
	}
}

func markErrorMessage(studentID string, err error) string {
	switch {
	case errors.Is(err, ErrStudentNotFound):
		return fmt.Sprintf("Student '%s' not found", studentID)
	case errors.Is(err, ErrDuplicateRecord):
		return fmt.Sprintf("Attendance already recorded for student '%s'", studentID)
	default:
		return fmt.Sprintf("Student '%s': %v", studentID, err)
	}
}

func newToken() (string, error) {
	bytes := make([]byte, tokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
