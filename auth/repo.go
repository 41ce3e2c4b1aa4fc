package auth

import (
	"context"

	"github.com/jrsteele09/tenant-portal/sessions"
)

// SessionStore persists the single session record. *sessions.Store
// satisfies it.
type SessionStore interface {
	Load(ctx context.Context) (sessions.Session, bool)
	Save(ctx context.Context, session sessions.Session) error
	Clear(ctx context.Context) error
}

var _ SessionStore = (*sessions.Store)(nil)
