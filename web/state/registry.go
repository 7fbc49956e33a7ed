package state

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"daily_report_app_go/web/query"
)

// Session is the front-end state bound to one session token.
type Session struct {
	Store   *Store
	Queries *query.Client
}

// Registry maps session tokens to their front-end state. Idle sessions
// are evicted after the registry TTL. Tokens are kept hashed.
type Registry struct {
	mu       sync.Mutex
	sessions *expirable.LRU[string, *Session]
}

// NewRegistry keeps at most size sessions, each for ttl after its last use.
func NewRegistry(size int, ttl time.Duration) *Registry {
	onEvict := func(_ string, s *Session) {
		s.Store.Clear()
		s.Queries.Clear()
	}
	return &Registry{sessions: expirable.NewLRU[string, *Session](size, onEvict, ttl)}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Get returns the state for token, creating it on first use.
func (r *Registry) Get(token string) *Session {
	key := tokenKey(token)
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions.Get(key); ok {
		r.sessions.Add(key, s)
		return s
	}
	s := newSession()
	r.sessions.Add(key, s)
	return s
}

// Drop discards the state for token.
func (r *Registry) Drop(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions.Remove(tokenKey(token))
}

// Len is the number of live sessions.
func (r *Registry) Len() int {
	return r.sessions.Len()
}

// newSession wires the store to the query cache: when the signed-in user
// changes, cached reads of the previous user are dropped.
func newSession() *Session {
	s := &Session{Store: NewStore(), Queries: query.New()}
	var lastUser uint
	var mu sync.Mutex
	s.Store.Subscribe(func(snap Snapshot) {
		mu.Lock()
		defer mu.Unlock()
		var id uint
		if snap.User != nil {
			id = snap.User.ID
		}
		if id != lastUser {
			if lastUser != 0 {
				s.Queries.Clear()
			}
			lastUser = id
		}
	})
	return s
}
