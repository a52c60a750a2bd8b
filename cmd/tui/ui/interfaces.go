package ui

import (
	"context"

	"github.com/VoxDroid/cqe/internal/forms"
	"github.com/VoxDroid/cqe/internal/models"
	"github.com/VoxDroid/cqe/internal/nav"
	"github.com/VoxDroid/cqe/internal/tui/adapters"
)

// Model defines the subset of the framework-agnostic UI model that the TUI
// depends on. Keeping it small lets tests drive the dashboard with fakes.
type Model interface {
	Machine() *nav.Machine
	User() models.User
	LoggedIn() bool
	Projects() []models.Project
	FilterProjects(query string) []models.Project

	Notice() string
	ClearNotice()
	Err() error
	DismissError()

	Login(ctx context.Context, f forms.Login) error
	Logout(ctx context.Context) error

	SelectProject(p models.Project) nav.Ticket
	// FetchReleases and Stats may run on any goroutine.
	FetchReleases(ctx context.Context, t nav.Ticket) ([]models.Release, error)
	ApplyReleases(t nav.Ticket, releases []models.Release, err error) bool
	SelectRelease(r models.Release) error
	ClearSelection()
	Reload() (nav.Ticket, bool)

	Invoke(id nav.ActionID) bool
	CancelAction()
	SubmitCreateRelease(ctx context.Context, f forms.CreateRelease) (models.ID, error)
	SubmitImportRequirements(ctx context.Context, f forms.ImportRequirements) (int, error)

	StatsRequest() (models.ID, models.ID, bool)
	Stats(ctx context.Context, projectID, releaseID models.ID) (adapters.Stats, error)
}
