// Package adapters provides adapter interfaces and lightweight types used by
// the TUI to decouple it from the API client and the session database.
package adapters

import (
	"context"
	"time"

	"github.com/VoxDroid/cqe/internal/models"
)

// Session is the persisted login and selection.
type Session struct {
	User    models.User
	Token   string
	Project *models.Project
	Release *models.Release
	Since   time.Time
}

// LoggedIn reports whether the session holds a token.
func (s Session) LoggedIn() bool { return s.Token != "" }

// Stats bundles the dashboard counters of both tabs.
type Stats struct {
	Zephyr models.ZephyrStats
	Jira   models.JiraStats
}

// Backend describes the subset of the remote API used by the UI.
// Keep methods small and easy to mock for tests.
type Backend interface {
	Login(ctx context.Context, soeid, passcode string) (models.User, string, error)
	// SetToken switches the credentials used by subsequent calls.
	SetToken(token string)
	Projects(ctx context.Context, user models.User) ([]models.Project, error)
	Releases(ctx context.Context, projectID models.ID) ([]models.Release, error)
	CreateRelease(ctx context.Context, req models.CreateReleaseRequest) (models.ID, error)
	ImportRequirements(ctx context.Context, req models.ImportRequirementsRequest) error
	Stats(ctx context.Context, projectID, releaseID models.ID) (Stats, error)
}

// SessionStore persists the session between runs.
type SessionStore interface {
	Load(ctx context.Context) (Session, error)
	SaveLogin(ctx context.Context, user models.User, token string) error
	SaveSelection(ctx context.Context, project *models.Project, release *models.Release) error
	Clear(ctx context.Context) error
}
