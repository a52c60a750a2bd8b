package model

import (
	"context"
	"sync"

	cqeerrors "github.com/VoxDroid/cqe/internal/errors"
	"github.com/VoxDroid/cqe/internal/models"
	"github.com/VoxDroid/cqe/internal/tui/adapters"
)

type fakeBackend struct {
	mu        sync.Mutex
	token     string
	projects  []models.Project
	releases  map[models.ID][]models.Release
	failRel   map[models.ID]error
	created   []models.CreateReleaseRequest
	imported  []models.ImportRequirementsRequest
	createErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		projects: []models.Project{{ID: "1", Name: "Alpha"}, {ID: "2", Name: "Beta"}},
		releases: map[models.ID][]models.Release{
			"1": {{ID: "10", Name: "v1.0"}, {ID: "11", Name: "v1.1"}},
			"2": {{ID: "20", Name: "b1"}},
		},
		failRel: map[models.ID]error{},
	}
}

func (f *fakeBackend) Login(_ context.Context, soeid, passcode string) (models.User, string, error) {
	if passcode != "1234" {
		return models.User{}, "", cqeerrors.NewNetworkError("login", 401, "Invalid SOEID or passcode", nil)
	}
	return models.User{ID: "1", SOEID: soeid, Name: "Demo User"}, "tok-" + soeid, nil
}

func (f *fakeBackend) SetToken(tok string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = tok
}

func (f *fakeBackend) Projects(_ context.Context, _ models.User) ([]models.Project, error) {
	return f.projects, nil
}

func (f *fakeBackend) Releases(_ context.Context, id models.ID) ([]models.Release, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failRel[id]; err != nil {
		return nil, err
	}
	return f.releases[id], nil
}

func (f *fakeBackend) CreateRelease(_ context.Context, req models.CreateReleaseRequest) (models.ID, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, req)
	return "99", nil
}

func (f *fakeBackend) ImportRequirements(_ context.Context, req models.ImportRequirementsRequest) error {
	f.imported = append(f.imported, req)
	return nil
}

func (f *fakeBackend) Stats(_ context.Context, _, _ models.ID) (adapters.Stats, error) {
	return adapters.Stats{Zephyr: models.ZephyrStats{TotalTestCases: 245}}, nil
}

type fakeStore struct {
	sess    adapters.Session
	saves   int
	saveErr error
	cleared bool
}

func (s *fakeStore) Load(_ context.Context) (adapters.Session, error) { return s.sess, nil }

func (s *fakeStore) SaveLogin(_ context.Context, u models.User, tok string) error {
	s.sess = adapters.Session{User: u, Token: tok}
	return nil
}

func (s *fakeStore) SaveSelection(_ context.Context, p *models.Project, r *models.Release) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.sess.Project, s.sess.Release = p, r
	return nil
}

func (s *fakeStore) Clear(_ context.Context) error {
	s.cleared = true
	s.sess = adapters.Session{}
	return nil
}
