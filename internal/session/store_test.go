package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoxDroid/cqe/internal/db"
	"github.com/VoxDroid/cqe/internal/models"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewStore(conn)
}

func TestEmptyStoreLoadsZeroState(t *testing.T) {
	st, err := newStore(t).Load(context.Background())
	require.NoError(t, err)
	assert.False(t, st.LoggedIn())
	assert.Nil(t, st.Project)
	assert.Nil(t, st.Release)
}

func TestLoginSelectionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	u := models.User{ID: "7", SOEID: "AB12345", Name: "Ada"}
	require.NoError(t, s.SaveLogin(ctx, u, "tok-123"))
	p := &models.Project{ID: "1", Name: "Alpha"}
	r := &models.Release{ID: "10", Name: "v1.0"}
	require.NoError(t, s.SaveSelection(ctx, p, r))

	st, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, st.LoggedIn())
	assert.Equal(t, u, st.User)
	assert.Equal(t, "tok-123", st.Token)
	assert.Equal(t, p, st.Project)
	assert.Equal(t, r, st.Release)
	assert.WithinDuration(t, time.Now().UTC(), st.Since, time.Minute)
}

func TestSaveSelectionWithoutReleaseDropsStaleRelease(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveSelection(ctx, &models.Project{ID: "1", Name: "Alpha"}, &models.Release{ID: "10", Name: "v1.0"}))
	require.NoError(t, s.SaveSelection(ctx, &models.Project{ID: "2", Name: "Beta"}, nil))

	st, err := s.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, st.Project)
	assert.Equal(t, models.ID("2"), st.Project.ID)
	assert.Nil(t, st.Release)
}

func TestNewLoginClearsSelection(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveLogin(ctx, models.User{SOEID: "AB12345"}, "a"))
	require.NoError(t, s.SaveSelection(ctx, &models.Project{ID: "1", Name: "Alpha"}, nil))
	require.NoError(t, s.SaveLogin(ctx, models.User{SOEID: "CD67890"}, "b"))

	st, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CD67890", st.User.SOEID)
	assert.Nil(t, st.Project)
}

func TestClearRemovesEverything(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.SaveLogin(ctx, models.User{SOEID: "AB12345"}, "tok"))
	require.NoError(t, s.SaveSelection(ctx, &models.Project{ID: "1", Name: "Alpha"}, &models.Release{ID: "10", Name: "v1.0"}))
	require.NoError(t, s.Clear(ctx))

	st, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, State{}, st)
}
