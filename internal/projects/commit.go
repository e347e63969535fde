package projects

import (
	"context"
	"fmt"
	"net/http"

	"gerritkit/internal/client"
	"gerritkit/pkg/errors"
	"gerritkit/pkg/models"
)

// Commit represents an immutable commit of a project
type Commit struct {
	models.CommitInfo

	Project string
	client  *client.Client
}

// NewCommit builds a Commit from a server record
func NewCommit(info models.CommitInfo, project string, c *client.Client) *Commit {
	return &Commit{CommitInfo: info, Project: project, client: c}
}

// GetCommit fetches one commit of the project by hash
func GetCommit(ctx context.Context, c *client.Client, project, commitID string) (*Commit, error) {
	endpoint := fmt.Sprintf("/projects/%s/commits/%s", project, commitID)

	resp, err := c.Call(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var info models.CommitInfo
	if err := c.DecodeResponse(resp, &info); err != nil {
		return nil, err
	}
	return NewCommit(info, project, c), nil
}

// IncludedIn retrieves the branches and tags that contain this commit
func (c *Commit) IncludedIn(ctx context.Context) (*models.IncludedInInfo, error) {
	endpoint := fmt.Sprintf("/projects/%s/commits/%s/in", c.Project, c.Commit)

	resp, err := c.client.Call(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var info models.IncludedInInfo
	if err := c.client.DecodeResponse(resp, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// FileContent fetches the content of file at this commit. The server
// answers with a base64 encoded string, which is returned as-is.
func (c *Commit) FileContent(ctx context.Context, file string) (string, error) {
	endpoint := fmt.Sprintf("/projects/%s/commits/%s/files/%s/content",
		c.Project, c.Commit, client.EscapePath(file))

	resp, err := c.client.Call(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	return c.client.DecodeString(resp)
}

// CherryPick applies this commit onto the destination branch named in
// input and returns the resulting change
func (c *Commit) CherryPick(ctx context.Context, input *models.CherryPickInput) (*models.ChangeInfo, error) {
	if input == nil {
		return nil, errors.InvalidInputError("CherryPickInput")
	}

	endpoint := fmt.Sprintf("/projects/%s/commits/%s/cherrypick", c.Project, c.Commit)

	resp, err := c.client.Call(ctx, http.MethodPost, endpoint, input)
	if err != nil {
		return nil, err
	}

	var change models.ChangeInfo
	if err := c.client.DecodeResponse(resp, &change); err != nil {
		return nil, err
	}
	return &change, nil
}

// ListFiles lists the files that were modified, added or deleted in
// this commit, keyed by path
func (c *Commit) ListFiles(ctx context.Context) (map[string]models.FileInfo, error) {
	endpoint := fmt.Sprintf("/projects/%s/commits/%s/files/", c.Project, c.Commit)

	resp, err := c.client.Call(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var files map[string]models.FileInfo
	if err := c.client.DecodeResponse(resp, &files); err != nil {
		return nil, err
	}
	return files, nil
}
