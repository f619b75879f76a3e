// Package session keeps track of the logged-in user between runs.
package session

import (
	"context"
	"encoding/json"

	"maji/local-app/internal/event"
	"maji/local-app/internal/log"
	"maji/local-app/internal/model"
	"maji/local-app/internal/storage"
)

// Key is the storage key holding the serialized current session.
const Key = "usuarioActual"

// Store persists the current Session record. Presence of the record is the
// only signal of being logged in; it is never checked for age or tampering.
//
// A Store with no backing KV behaves as if nothing was ever stored.
type Store struct {
	kv     storage.KV
	events *event.EventManager
	logger *log.Logger
}

// NewStore creates a Store on kv. Any argument may be nil.
func NewStore(kv storage.KV, events *event.EventManager, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Discard()
	}
	return &Store{kv: kv, events: events, logger: logger}
}

// Save stores rec, replacing any previous session.
func (s *Store) Save(rec model.Session) {
	ctx := context.Background()
	if s.kv == nil {
		s.logger.Warn(ctx, "Session storage unavailable, session not saved", nil)
		return
	}

	data, err := json.Marshal(rec)
	if err != nil {
		s.logger.Error(ctx, "Failed to encode session", log.Fields{"error": err})
		return
	}
	if err := s.kv.Put(ctx, Key, string(data)); err != nil {
		s.logger.Error(ctx, "Failed to save session", log.Fields{"error": err})
		return
	}

	s.logger.Info(ctx, "Session saved", log.Fields{"userID": rec.ID, "role": rec.Role})
	s.publish(event.SessionStarted, rec)
}

// Clear removes the stored session.
func (s *Store) Clear() {
	ctx := context.Background()
	if s.kv == nil {
		return
	}
	if err := s.kv.Delete(ctx, Key); err != nil {
		s.logger.Error(ctx, "Failed to clear session", log.Fields{"error": err})
		return
	}

	s.logger.Info(ctx, "Session cleared", nil)
	s.publish(event.SessionEnded, nil)
}

// HasSession reports whether a session record is stored.
func (s *Store) HasSession() bool {
	if s.kv == nil {
		return false
	}
	_, ok, err := s.kv.Get(context.Background(), Key)
	if err != nil {
		s.logger.Error(context.Background(), "Failed to read session", log.Fields{"error": err})
		return false
	}
	return ok
}

// Current returns the stored session. A value that cannot be decoded is
// reported as absent and left in place.
func (s *Store) Current() (*model.Session, bool) {
	ctx := context.Background()
	if s.kv == nil {
		return nil, false
	}

	raw, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		s.logger.Error(ctx, "Failed to read session", log.Fields{"error": err})
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var rec model.Session
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		s.logger.Warn(ctx, "Stored session is corrupt, treating as absent", log.Fields{"error": err})
		return nil, false
	}
	return &rec, true
}

// Role returns the role of the current session.
func (s *Store) Role() (model.Role, bool) {
	rec, ok := s.Current()
	if !ok {
		return "", false
	}
	return rec.Role, true
}

func (s *Store) publish(t event.EventType, data interface{}) {
	if s.events != nil {
		s.events.Publish(event.Event{Type: t, Data: data})
	}
}
