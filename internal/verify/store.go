// Package verify issues and checks short-lived verification codes, keyed by
// email address. The store is an explicit dependency with an injected clock
// rather than package-level state, so it can be scoped and tested.
package verify

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"
)

// DefaultTTL matches the 15-minute expiry the account flows expect.
const DefaultTTL = 15 * time.Minute

type entry struct {
	code      string
	expiresAt time.Time
}

// CodeStore holds verification codes until they expire or are consumed.
type CodeStore struct {
	ttl     time.Duration
	clock   func() time.Time
	newCode func() string

	mu    sync.Mutex
	codes map[string]entry
}

func NewCodeStore(ttl time.Duration) *CodeStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CodeStore{
		ttl:     ttl,
		clock:   time.Now,
		newCode: randomCode,
		codes:   make(map[string]entry),
	}
}

// NewCodeStoreWithClock is test-only for deterministic expiry.
func NewCodeStoreWithClock(ttl time.Duration, now func() time.Time) *CodeStore {
	s := NewCodeStore(ttl)
	s.clock = now
	return s
}

// Issue generates, stores, and returns a fresh code for the email,
// replacing any previous one.
func (s *CodeStore) Issue(email string) string {
	code := s.newCode()
	s.mu.Lock()
	s.codes[email] = entry{code: code, expiresAt: s.clock().Add(s.ttl)}
	s.mu.Unlock()
	return code
}

// Validate reports whether the code matches and has not expired.
func (s *CodeStore) Validate(email, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.codes[email]
	if !ok || s.clock().After(e.expiresAt) {
		return false
	}
	return e.code == code
}

// Consume removes the code after a successful validation.
func (s *CodeStore) Consume(email string) {
	s.mu.Lock()
	delete(s.codes, email)
	s.mu.Unlock()
}

func randomCode() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
