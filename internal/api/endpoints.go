package api

import (
	"context"
	"net/http"

	"github.com/VoxDroid/cqe/internal/models"
)

// LoginResult is the payload of a successful login.
type LoginResult struct {
	User  models.User
	Token string
}

// Login authenticates with an SOEID and a 4-digit passcode.
func (c *Client) Login(ctx context.Context, soeid, passcode string) (LoginResult, error) {
	var out struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	in := map[string]string{"soeid": soeid, "passcode": passcode}
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", in, &out); err != nil {
		return LoginResult{}, err
	}
	if out.User.SOEID == "" {
		out.User.SOEID = soeid
	}
	return LoginResult{User: out.User, Token: out.Token}, nil
}

// Register creates an account. It returns the server's confirmation
// message.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (string, error) {
	var out envelope
	if err := c.do(ctx, "register", http.MethodPost, "/auth/register", req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ValidateZephyrToken asks the backend whether a Zephyr API token is usable
// before registration.
func (c *Client) ValidateZephyrToken(ctx context.Context, token string) error {
	in := map[string]string{"zephyr_token": token}
	return c.do(ctx, "validate zephyr token", http.MethodPost, "/auth/validate-zephyr-token", in, nil)
}

// ProjectsForUser lists the projects visible to userID.
func (c *Client) ProjectsForUser(ctx context.Context, userID string) ([]models.Project, error) {
	var out struct {
		Projects []models.Project `json:"projects"`
	}
	if err := c.do(ctx, "list projects", http.MethodGet, "/projects/user/"+pathID(userID), nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

// ReleasesByProject lists the releases of projectID.
func (c *Client) ReleasesByProject(ctx context.Context, projectID models.ID) ([]models.Release, error) {
	var out struct {
		Releases []models.Release `json:"releases"`
	}
	if err := c.do(ctx, "list releases", http.MethodGet, "/releases/by-project/"+pathID(projectID.String()), nil, &out); err != nil {
		return nil, err
	}
	for i := range out.Releases {
		if out.Releases[i].ProjectID == "" {
			out.Releases[i].ProjectID = projectID
		}
	}
	return out.Releases, nil
}

// CreateRelease creates a release and returns its id.
func (c *Client) CreateRelease(ctx context.Context, req models.CreateReleaseRequest) (models.ID, error) {
	var out struct {
		ReleaseID models.ID `json:"release_id"`
	}
	if err := c.do(ctx, "create release", http.MethodPost, "/zephyr/create-release", req, &out); err != nil {
		return "", err
	}
	return out.ReleaseID, nil
}

// ImportRequirements starts a Jira→Zephyr requirement import for a release.
func (c *Client) ImportRequirements(ctx context.Context, req models.ImportRequirementsRequest) error {
	return c.do(ctx, "import requirements", http.MethodPost, "/zephyr/import-requirements", req, nil)
}

// ZephyrStats fetches the Zephyr dashboard counters.
func (c *Client) ZephyrStats(ctx context.Context, projectID, releaseID models.ID) (models.ZephyrStats, error) {
	var out struct {
		Stats models.ZephyrStats `json:"stats"`
	}
	path := "/dashboard/zephyr-stats/" + pathID(projectID.String()) + "/" + pathID(releaseID.String())
	if err := c.do(ctx, "zephyr stats", http.MethodGet, path, nil, &out); err != nil {
		return models.ZephyrStats{}, err
	}
	return out.Stats, nil
}

// JiraStats fetches the Jira dashboard counters.
func (c *Client) JiraStats(ctx context.Context, projectID, releaseID models.ID) (models.JiraStats, error) {
	var out struct {
		Stats models.JiraStats `json:"stats"`
	}
	path := "/dashboard/jira-stats/" + pathID(projectID.String()) + "/" + pathID(releaseID.String())
	if err := c.do(ctx, "jira stats", http.MethodGet, path, nil, &out); err != nil {
		return models.JiraStats{}, err
	}
	return out.Stats, nil
}
