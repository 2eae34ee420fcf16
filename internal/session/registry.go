package session

import (
	"errors"
	"fmt"
	"sync"

	"go-wallpaper-browser/internal/browse"
	apperrors "go-wallpaper-browser/internal/errors"
	"go-wallpaper-browser/internal/logger"
	"go-wallpaper-browser/internal/observer"

	"github.com/google/uuid"
)

// ErrSessionNotFound is wrapped by lookups of an unknown session id
var ErrSessionNotFound = errors.New("session not found")

// Registry holds the browse controllers of live sessions
type Registry struct {
	source      browse.Source
	events      observer.Subject
	maxSessions int

	mu       sync.RWMutex
	sessions map[string]*browse.Controller
}

// NewRegistry creates a registry. A maxSessions of zero or less means unlimited.
func NewRegistry(source browse.Source, events observer.Subject, maxSessions int) *Registry {
	return &Registry{
		source:      source,
		events:      events,
		maxSessions: maxSessions,
		sessions:    make(map[string]*browse.Controller),
	}
}

// Create starts a new session with a fresh controller
func (r *Registry) Create() (string, *browse.Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		return "", nil, apperrors.NewValidationError(
			fmt.Sprintf("session limit of %d reached", r.maxSessions), nil)
	}

	id := uuid.NewString()
	opts := []browse.Option{browse.WithSessionID(id)}
	if r.events != nil {
		opts = append(opts, browse.WithEvents(r.events))
	}
	controller := browse.NewController(r.source, opts...)
	r.sessions[id] = controller

	logger.WithField("session_id", id).Debug("Session created")
	return id, controller, nil
}

// Get returns the controller of a live session
func (r *Registry) Get(id string) (*browse.Controller, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	controller, ok := r.sessions[id]
	if !ok {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("session %q not found", id), ErrSessionNotFound)
	}
	return controller, nil
}

// Dispose discards a session. A fetch still running for it is discarded on arrival.
func (r *Registry) Dispose(id string) error {
	r.mu.Lock()
	controller, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("session %q not found", id), ErrSessionNotFound)
	}
	controller.Dispose()
	logger.WithField("session_id", id).Debug("Session disposed")
	return nil
}

// DisposeAll discards every session, used on shutdown
func (r *Registry) DisposeAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*browse.Controller)
	r.mu.Unlock()

	for _, controller := range sessions {
		controller.Dispose()
	}
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
