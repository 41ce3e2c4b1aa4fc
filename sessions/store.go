package sessions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/jrsteele09/tenant-portal/internal/errors"
	"github.com/jrsteele09/tenant-portal/internal/kvstore"
	"github.com/rs/zerolog/log"
)

// StorageKey is the fixed key the session record lives under.
const StorageKey = "auth_session"

// Store persists exactly one Session record.
type Store struct {
	kv  kvstore.KV
	key string
}

// NewStore wraps a key/value store.
func NewStore(kv kvstore.KV) *Store {
	return &Store{kv: kv, key: StorageKey}
}

// Load returns the persisted session. A record that cannot be read, parsed
// or fails Valid is deleted and reported as absent.
func (s *Store) Load(ctx context.Context) (Session, bool) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		log.Err(err).Str("key", s.key).Msg("Failed to read persisted session")
		return Session{}, false
	}
	if !ok {
		return Session{}, false
	}

	session, err := decode(raw)
	if err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("Found corrupt session, clearing")
		if err := s.kv.Remove(ctx, s.key); err != nil {
			log.Err(err).Str("key", s.key).Msg("Failed to clear corrupt session")
		}
		return Session{}, false
	}
	return session, true
}

// Save overwrites the stored record.
func (s *Store) Save(ctx context.Context, session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("[Store Save] marshal session: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("[Store Save] %w", err)
	}
	return nil
}

// Clear deletes the stored record.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("[Store Clear] %w", err)
	}
	return nil
}

func decode(raw []byte) (Session, error) {
	// JSON null and non-object values are not records
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Session{}, errors.Wrapf(errors.ErrCorruptSession, "not a JSON object")
	}
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return Session{}, errors.Wrapf(errors.ErrCorruptSession, "parse: %v", err)
	}
	if !session.Valid() {
		return Session{}, errors.Wrapf(errors.ErrCorruptSession, "authenticated session without user id")
	}
	return session, nil
}
