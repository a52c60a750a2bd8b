package adapters

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/VoxDroid/cqe/internal/api"
	"github.com/VoxDroid/cqe/internal/models"
)

// apiBackend implements Backend on top of an api.Client.
type apiBackend struct{ client *api.Client }

// NewAPIBackend returns a Backend that talks to the CQE API through c.
func NewAPIBackend(c *api.Client) Backend { return &apiBackend{client: c} }

func (b *apiBackend) Login(ctx context.Context, soeid, passcode string) (models.User, string, error) {
	res, err := b.client.Login(ctx, soeid, passcode)
	if err != nil {
		return models.User{}, "", err
	}
	return res.User, res.Token, nil
}

func (b *apiBackend) SetToken(token string) { b.client.SetToken(token) }

func (b *apiBackend) Projects(ctx context.Context, u models.User) ([]models.Project, error) {
	return b.client.ProjectsForUser(ctx, u.Key())
}

func (b *apiBackend) Releases(ctx context.Context, projectID models.ID) ([]models.Release, error) {
	return b.client.ReleasesByProject(ctx, projectID)
}

func (b *apiBackend) CreateRelease(ctx context.Context, req models.CreateReleaseRequest) (models.ID, error) {
	return b.client.CreateRelease(ctx, req)
}

func (b *apiBackend) ImportRequirements(ctx context.Context, req models.ImportRequirementsRequest) error {
	return b.client.ImportRequirements(ctx, req)
}

// Stats fetches both dashboards concurrently. The first failure cancels the
// other request.
func (b *apiBackend) Stats(ctx context.Context, projectID, releaseID models.ID) (Stats, error) {
	var out Stats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		z, err := b.client.ZephyrStats(ctx, projectID, releaseID)
		if err != nil {
			return err
		}
		out.Zephyr = z
		return nil
	})
	g.Go(func() error {
		j, err := b.client.JiraStats(ctx, projectID, releaseID)
		if err != nil {
			return err
		}
		out.Jira = j
		return nil
	})
	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return out, nil
}
