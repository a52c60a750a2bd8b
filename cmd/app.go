package cmd

import (
	"context"
	"database/sql"
	"strings"

	"github.com/VoxDroid/cqe/internal/api"
	"github.com/VoxDroid/cqe/internal/db"
	cqeerrors "github.com/VoxDroid/cqe/internal/errors"
	"github.com/VoxDroid/cqe/internal/models"
	"github.com/VoxDroid/cqe/internal/nav"
	"github.com/VoxDroid/cqe/internal/session"
	"github.com/VoxDroid/cqe/internal/tui/adapters"
	modelpkg "github.com/VoxDroid/cqe/internal/tui/model"
)

// app wires the database, the API client and the UI model for one command.
type app struct {
	db     *sql.DB
	store  *session.Store
	client *api.Client
	model  *modelpkg.UIModel
}

func openApp() (*app, error) {
	dbConn, err := db.InitDB()
	if err != nil {
		return nil, err
	}
	tab, err := nav.ParseTab(strings.ToLower(settings.DefaultTab))
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}
	store := session.NewStore(dbConn)
	client := api.NewClient(settings.APIURL, api.WithTimeout(settings.Timeout), api.WithLogger(logger))
	m := modelpkg.New(
		adapters.NewAPIBackend(client),
		adapters.NewSessionAdapter(store),
		modelpkg.WithLogger(logger),
		modelpkg.WithTab(tab),
	)
	return &app{db: dbConn, store: store, client: client, model: m}, nil
}

func (a *app) Close() { _ = a.db.Close() }

// mount restores the session and, when a project was selected, loads its
// releases so the stored release can be checked against them. A failed
// release fetch is latched on the machine instead of returned, so the user
// can still switch projects; commands that read the list call releasesErr.
func (a *app) mount(ctx context.Context) error {
	t, ok, err := a.model.Mount(ctx)
	if err != nil {
		return err
	}
	if err := a.model.Err(); err != nil {
		return err
	}
	if ok {
		_ = a.loadReleases(ctx, t)
	}
	return nil
}

// releasesErr returns the failed release fetch of the selected project.
func (a *app) releasesErr() error { return a.model.Machine().FetchErr() }

func (a *app) loadReleases(ctx context.Context, t nav.Ticket) error {
	rs, err := a.model.FetchReleases(ctx, t)
	a.model.ApplyReleases(t, rs, err)
	return err
}

// findProject resolves a project by id, exact name, or unique fuzzy match.
func (a *app) findProject(key string) (models.Project, error) {
	ps := a.model.Projects()
	for _, p := range ps {
		if p.ID.String() == key {
			return p, nil
		}
	}
	for _, p := range ps {
		if strings.EqualFold(p.Name, key) {
			return p, nil
		}
	}
	matches := modelpkg.FilterProjects(ps, key)
	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) > 1 {
		return models.Project{}, cqeerrors.NewValidationError("project", "project "+quote(key)+" is ambiguous; use its id")
	}
	return models.Project{}, cqeerrors.NewValidationError("project", "no project matches "+quote(key))
}

// findRelease resolves a release of the selected project by id, name, or
// unique fuzzy match.
func (a *app) findRelease(key string) (models.Release, error) {
	m := a.model.Machine()
	if r, ok := m.FindRelease(key); ok {
		return r, nil
	}
	matches := modelpkg.FilterReleases(m.Releases(), key)
	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) > 1 {
		return models.Release{}, cqeerrors.NewValidationError("release", "release "+quote(key)+" is ambiguous; use its id")
	}
	return models.Release{}, cqeerrors.NewValidationError("release", "no release matches "+quote(key))
}

func quote(s string) string { return "\"" + s + "\"" }
