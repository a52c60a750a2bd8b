// Package session persists the client-side session: the logged-in user,
// the auth token and the last project/release selection. It replaces
// ambient shared storage with an explicit object that callers pass around.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/VoxDroid/cqe/internal/models"
)

const (
	keyUser    = "user"
	keyToken   = "token"
	keyProject = "project"
	keyRelease = "release"
)

const sqliteTime = "2006-01-02 15:04:05"

// State is everything the store holds. Zero values mean "absent".
type State struct {
	User    models.User
	Token   string
	Project *models.Project
	Release *models.Release
	// Since is when the login was stored.
	Since time.Time
}

// LoggedIn reports whether s carries both a user and a token.
func (s State) LoggedIn() bool {
	return s.Token != "" && s.User.SOEID != ""
}

// Store is a SQLite-backed session store.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open, migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Load reads the persisted session. A store with nothing in it yields a
// zero State and no error.
func (s *Store) Load(ctx context.Context) (State, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value, updated_at FROM session_state")
	if err != nil {
		return State{}, fmt.Errorf("load session: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var st State
	for rows.Next() {
		var key, value, updated string
		if err := rows.Scan(&key, &value, &updated); err != nil {
			return State{}, fmt.Errorf("load session: %w", err)
		}
		switch key {
		case keyUser:
			if err := json.Unmarshal([]byte(value), &st.User); err != nil {
				return State{}, fmt.Errorf("decode stored user: %w", err)
			}
			if t, err := time.ParseInLocation(sqliteTime, updated, time.UTC); err == nil {
				st.Since = t
			}
		case keyToken:
			st.Token = value
		case keyProject:
			var p models.Project
			if err := json.Unmarshal([]byte(value), &p); err != nil {
				return State{}, fmt.Errorf("decode stored project: %w", err)
			}
			st.Project = &p
		case keyRelease:
			var r models.Release
			if err := json.Unmarshal([]byte(value), &r); err != nil {
				return State{}, fmt.Errorf("decode stored release: %w", err)
			}
			st.Release = &r
		}
	}
	if err := rows.Err(); err != nil {
		return State{}, fmt.Errorf("load session: %w", err)
	}
	// a release is only meaningful under its project
	if st.Project == nil {
		st.Release = nil
	}
	return st, nil
}

// SaveLogin stores the user and token, dropping any previous selection: a
// new login starts from an empty dashboard.
func (s *Store) SaveLogin(ctx context.Context, u models.User, token string) error {
	ub, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM session_state"); err != nil {
			return err
		}
		if err := put(ctx, tx, keyUser, string(ub)); err != nil {
			return err
		}
		return put(ctx, tx, keyToken, token)
	})
}

// SaveSelection stores the selection. A nil project clears both keys; a nil
// release clears only the release.
func (s *Store) SaveSelection(ctx context.Context, p *models.Project, r *models.Release) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if p == nil {
			return del(ctx, tx, keyProject, keyRelease)
		}
		pb, err := json.Marshal(p)
		if err != nil {
			return err
		}
		if err := put(ctx, tx, keyProject, string(pb)); err != nil {
			return err
		}
		if r == nil {
			return del(ctx, tx, keyRelease)
		}
		rb, err := json.Marshal(r)
		if err != nil {
			return err
		}
		return put(ctx, tx, keyRelease, string(rb))
	})
}

// Clear removes the user, token and selection together.
func (s *Store) Clear(ctx context.Context) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return del(ctx, tx, keyUser, keyToken, keyProject, keyRelease)
	})
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("write session: %w", err)
	}
	return tx.Commit()
}

func put(ctx context.Context, tx *sql.Tx, key, value string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO session_state (key, value, updated_at) VALUES (?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, key, value)
	return err
}

func del(ctx context.Context, tx *sql.Tx, keys ...string) error {
	for _, k := range keys {
		if _, err := tx.ExecContext(ctx, "DELETE FROM session_state WHERE key = ?", k); err != nil {
			return err
		}
	}
	return nil
}
