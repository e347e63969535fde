package projects

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"gerritkit/internal/client"
	"gerritkit/pkg/errors"
	"gerritkit/pkg/models"
)

// BranchPrefix is the ref namespace all project branches live under
const BranchPrefix = "refs/heads/"

// Branch represents one branch of a project. It is a snapshot built
// from a server record; remote operations never mutate it in place.
type Branch struct {
	models.BranchInfo

	Project string
	client  *client.Client
}

func newBranch(info models.BranchInfo, project string, c *client.Client) *Branch {
	return &Branch{BranchInfo: info, Project: project, client: c}
}

// Name returns the ref with the refs/heads/ prefix stripped. A ref
// outside that namespace is returned unchanged.
func (b *Branch) Name() string {
	return strings.TrimPrefix(b.Ref, BranchPrefix)
}

// FileContent fetches the content of file at this branch's head. The
// server answers with a base64 encoded string, which is returned as-is.
func (b *Branch) FileContent(ctx context.Context, file string) (string, error) {
	endpoint := fmt.Sprintf("/projects/%s/branches/%s/files/%s/content",
		b.Project, b.Name(), client.EscapePath(file))

	resp, err := b.client.Call(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	return b.client.DecodeString(resp)
}

// MergeableInfo queries whether the source described by input can be
// merged into this branch
func (b *Branch) MergeableInfo(ctx context.Context, input *models.MergeInput) (*models.MergeableInfo, error) {
	if input == nil {
		return nil, errors.InvalidInputError("MergeInput")
	}

	query := url.Values{}
	query.Set("source", input.Source)
	if input.SourceBranch != "" {
		query.Set("source_branch", input.SourceBranch)
	}
	if input.Strategy != "" {
		query.Set("strategy", input.Strategy)
	}

	endpoint := fmt.Sprintf("/projects/%s/branches/%s/mergeable?%s",
		b.Project, b.Name(), query.Encode())

	resp, err := b.client.Call(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var info models.MergeableInfo
	if err := b.client.DecodeResponse(resp, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Reflog returns the reflog entries of this branch, most recent first
func (b *Branch) Reflog(ctx context.Context) ([]models.ReflogEntry, error) {
	endpoint := fmt.Sprintf("/projects/%s/branches/%s/reflog", b.Project, b.Name())

	resp, err := b.client.Call(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var entries []models.ReflogEntry
	if err := b.client.DecodeResponse(resp, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Delete removes this branch on the server. Cached snapshots held by a
// Branches collection are not touched; callers re-poll when they need
// a consistent view.
func (b *Branch) Delete(ctx context.Context) error {
	endpoint := fmt.Sprintf("/projects/%s/branches/%s", b.Project, b.Name())

	resp, err := b.client.Call(ctx, http.MethodDelete, endpoint, nil)
	if err != nil {
		return err
	}
	return b.client.CheckStatus(resp)
}
