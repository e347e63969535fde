package projects

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"slices"
	"strings"

	"gerritkit/internal/client"
	"gerritkit/pkg/errors"
	"gerritkit/pkg/models"
)

// metaConfigRef is Gerrit's per-project configuration ref. It shows up
// in branch listings but is never exposed by this collection.
const metaConfigRef = "refs/meta/config"

// Branches is a cached view over one project's branches. The snapshot
// is fetched once at construction and only refreshed by an explicit
// Poll: Create and Delete deliberately leave it stale, so reads keep
// reflecting the state at the last poll.
//
// A Branches instance owns its snapshot exclusively and is not safe
// for concurrent use.
type Branches struct {
	Project string

	client *client.Client
	data   []models.BranchInfo
}

// NewBranches fetches the branch list of project once and returns the
// collection backed by that snapshot
func NewBranches(ctx context.Context, project string, c *client.Client) (*Branches, error) {
	bs := &Branches{Project: project, client: c}
	if err := bs.Poll(ctx); err != nil {
		return nil, err
	}
	return bs, nil
}

// Poll re-fetches the branch list and replaces the snapshot. The
// refs/meta/config entry is always filtered out.
func (bs *Branches) Poll(ctx context.Context) error {
	endpoint := fmt.Sprintf("/projects/%s/branches/", bs.Project)

	resp, err := bs.client.Call(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	var listed []models.BranchInfo
	if err := bs.client.DecodeResponse(resp, &listed); err != nil {
		return err
	}

	data := make([]models.BranchInfo, 0, len(listed))
	for _, info := range listed {
		if info.Ref == metaConfigRef {
			continue
		}
		data = append(data, info)
	}
	bs.data = data
	return nil
}

// Refs returns a lazy iterator over the cached refs in snapshot order
func (bs *Branches) Refs() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, info := range bs.data {
			if !yield(info.Ref) {
				return
			}
		}
	}
}

// Keys returns the cached refs materialized as a slice, in snapshot order
func (bs *Branches) Keys() []string {
	keys := make([]string, 0, len(bs.data))
	for ref := range bs.Refs() {
		keys = append(keys, ref)
	}
	return keys
}

// Len returns the number of cached branch records
func (bs *Branches) Len() int {
	return len(bs.data)
}

// Contains reports whether the full ref is present in the snapshot
func (bs *Branches) Contains(ref string) bool {
	return slices.Contains(bs.Keys(), ref)
}

// Get looks up a branch by full ref in the cached snapshot. The ref
// must start with refs/heads/. A matching record is turned into a
// Branch without contacting the server.
func (bs *Branches) Get(ref string) (*Branch, error) {
	if !strings.HasPrefix(ref, BranchPrefix) {
		return nil, errors.InvalidRefError(BranchPrefix)
	}

	for _, info := range bs.data {
		if info.Ref == ref {
			return newBranch(info, bs.Project, bs.client), nil
		}
	}
	return nil, errors.UnknownBranchError(ref)
}

// Put creates the branch named by the full ref. It is Create with the
// prefix stripped; the same prefix contract applies.
func (bs *Branches) Put(ctx context.Context, ref string, input *models.BranchInput) (*Branch, error) {
	if !strings.HasPrefix(ref, BranchPrefix) {
		return nil, errors.InvalidRefError(BranchPrefix)
	}
	return bs.Create(ctx, strings.TrimPrefix(ref, BranchPrefix), input)
}

// Delete looks up the branch by full ref in the snapshot and deletes
// it on the server. The snapshot is not updated; the deleted ref stays
// visible until the next Poll.
func (bs *Branches) Delete(ctx context.Context, ref string) error {
	branch, err := bs.Get(ref)
	if err != nil {
		return err
	}
	return branch.Delete(ctx)
}

// All returns a lazy iterator of Branch values over the snapshot. It
// is restartable: each range walks the same cached records again.
func (bs *Branches) All() iter.Seq[*Branch] {
	return func(yield func(*Branch) bool) {
		for _, info := range bs.data {
			if !yield(newBranch(info, bs.Project, bs.client)) {
				return
			}
		}
	}
}

// Create creates a branch called name. If refs/heads/<name> is already
// in the cached snapshot the cached entry is returned directly, with
// no request made and input left unread. A successful remote creation
// does NOT update the snapshot: Keys and Contains keep answering from
// the pre-creation state until Poll is called.
func (bs *Branches) Create(ctx context.Context, name string, input *models.BranchInput) (*Branch, error) {
	ref := BranchPrefix + name
	if bs.Contains(ref) {
		return bs.Get(ref)
	}

	if input == nil {
		return nil, errors.InvalidInputError("BranchInput")
	}

	endpoint := fmt.Sprintf("/projects/%s/branches/%s", bs.Project, name)

	resp, err := bs.client.Call(ctx, http.MethodPut, endpoint, input)
	if err != nil {
		return nil, err
	}

	var created models.BranchInfo
	if err := bs.client.DecodeResponse(resp, &created); err != nil {
		return nil, err
	}
	return newBranch(created, bs.Project, bs.client), nil
}
