// Package state holds per-session front-end state: the signed-in user and
// pending toast notifications.
package state

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"daily_report_app_go/dto"
)

// SuccessToastTTL is how long a success toast stays before removing itself.
const SuccessToastTTL = 5 * time.Second

type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
)

type Toast struct {
	ID      string
	Type    ToastType
	Message string
}

// Snapshot is a copy of the store contents.
type Snapshot struct {
	User   *dto.UserResponse
	Toasts []Toast
}

// Store is safe for concurrent use. Subscribers are called after every
// change, outside the lock, with the new snapshot.
type Store struct {
	mu     sync.Mutex
	user   *dto.UserResponse
	toasts []Toast
	timers map[string]*time.Timer

	subs   map[int]func(Snapshot)
	nextID int

	toastTTL time.Duration
}

func NewStore() *Store {
	return &Store{
		timers:   make(map[string]*time.Timer),
		subs:     make(map[int]func(Snapshot)),
		toastTTL: SuccessToastTTL,
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{Toasts: append([]Toast(nil), s.toasts...)}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Subscribe registers fn and returns a function that unregisters it.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// update applies fn under the lock and notifies subscribers when fn
// reports a change.
func (s *Store) update(fn func() bool) {
	s.mu.Lock()
	if !fn() {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(snap)
	}
}

// User returns the signed-in user, or nil.
func (s *Store) User() *dto.UserResponse {
	return s.Snapshot().User
}

// SetUser replaces the signed-in user. nil signs out.
func (s *Store) SetUser(u *dto.UserResponse) {
	s.update(func() bool {
		if u == nil {
			if s.user == nil {
				return false
			}
			s.user = nil
			return true
		}
		if s.user != nil && *s.user == *u {
			return false
		}
		cp := *u
		s.user = &cp
		return true
	})
}

// AddToast queues a toast and returns its id. Success toasts remove
// themselves after the toast TTL.
func (s *Store) AddToast(typ ToastType, message string) string {
	id := uuid.NewString()
	s.update(func() bool {
		s.toasts = append(s.toasts, Toast{ID: id, Type: typ, Message: message})
		if typ == ToastSuccess {
			s.timers[id] = time.AfterFunc(s.toastTTL, func() { s.RemoveToast(id) })
		}
		return true
	})
	return id
}

// RemoveToast drops the toast with id. Unknown ids are ignored.
func (s *Store) RemoveToast(id string) {
	s.update(func() bool {
		if t, ok := s.timers[id]; ok {
			t.Stop()
			delete(s.timers, id)
		}
		for i, t := range s.toasts {
			if t.ID == id {
				s.toasts = append(s.toasts[:i], s.toasts[i+1:]...)
				return true
			}
		}
		return false
	})
}

// Clear signs out and drops all toasts.
func (s *Store) Clear() {
	s.update(func() bool {
		for id, t := range s.timers {
			t.Stop()
			delete(s.timers, id)
		}
		changed := s.user != nil || len(s.toasts) > 0
		s.user = nil
		s.toasts = nil
		return changed
	})
}
