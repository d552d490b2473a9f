package server

import (
	"context"
	"sync"

	"illitworld/internal/engine"
)

// Registry hands out one signed-in session per user, creating it on first use.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*engine.Session
	newFn    func() *engine.Session
}

func NewRegistry(newFn func() *engine.Session) *Registry {
	return &Registry{sessions: make(map[string]*engine.Session), newFn: newFn}
}

func (r *Registry) Session(ctx context.Context, userID string) *engine.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[userID]; ok {
		return s
	}
	s := r.newFn()
	s.SignIn(ctx, userID)
	r.sessions[userID] = s
	return s
}

// Wait flushes pending saves of every session.
func (r *Registry) Wait() {
	r.mu.Lock()
	list := make([]*engine.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		list = append(list, s)
	}
	r.mu.Unlock()
	for _, s := range list {
		s.Wait()
	}
}
