package adapters

import (
	"context"

	"github.com/VoxDroid/cqe/internal/models"
	"github.com/VoxDroid/cqe/internal/session"
)

// sessionAdapter implements SessionStore using a session.Store.
type sessionAdapter struct{ store *session.Store }

// NewSessionAdapter constructs a SessionStore backed by the provided Store.
func NewSessionAdapter(s *session.Store) SessionStore { return &sessionAdapter{store: s} }

func (a *sessionAdapter) Load(ctx context.Context) (Session, error) {
	st, err := a.store.Load(ctx)
	if err != nil {
		return Session{}, err
	}
	return Session{User: st.User, Token: st.Token, Project: st.Project, Release: st.Release, Since: st.Since}, nil
}

func (a *sessionAdapter) SaveLogin(ctx context.Context, u models.User, token string) error {
	return a.store.SaveLogin(ctx, u, token)
}

func (a *sessionAdapter) SaveSelection(ctx context.Context, p *models.Project, r *models.Release) error {
	return a.store.SaveSelection(ctx, p, r)
}

func (a *sessionAdapter) Clear(ctx context.Context) error { return a.store.Clear(ctx) }
