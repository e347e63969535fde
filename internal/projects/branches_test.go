package projects

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gerritkit/internal/client"
	"gerritkit/pkg/errors"
	"gerritkit/pkg/models"
)

// fakeGerrit is a minimal in-memory Gerrit for branch endpoints
type fakeGerrit struct {
	branches []models.BranchInfo

	listCalls   int
	createCalls int
	deleteCalls int
}

func (f *fakeGerrit) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/branches/"):
			f.listCalls++
			writeJSON(w, http.StatusOK, f.branches)
		case r.Method == http.MethodPut:
			f.createCalls++
			var input models.BranchInput
			json.NewDecoder(r.Body).Decode(&input)
			name := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
			writeJSON(w, http.StatusCreated, models.BranchInfo{
				Ref:      "refs/heads/" + name,
				Revision: input.Revision,
			})
		case r.Method == http.MethodDelete:
			f.deleteCalls++
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	fmt.Fprint(w, ")]}'\n")
	json.NewEncoder(w).Encode(v)
}

func newTestBranches(t *testing.T, fake *fakeGerrit) *Branches {
	t.Helper()

	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL, client.Options{})
	require.NoError(t, err)

	bs, err := NewBranches(context.Background(), "tools", c)
	require.NoError(t, err)
	return bs
}

func TestNewBranchesFiltersMetaConfig(t *testing.T) {
	fake := &fakeGerrit{branches: []models.BranchInfo{
		{Ref: "refs/heads/master", Revision: "abc123"},
		{Ref: "refs/meta/config", Revision: "def456"},
	}}
	bs := newTestBranches(t, fake)

	assert.Equal(t, 1, bs.Len())
	assert.Equal(t, []string{"refs/heads/master"}, bs.Keys())
	assert.False(t, bs.Contains("refs/meta/config"))
	assert.Equal(t, 1, fake.listCalls)
}

func TestBranchesKeysPreserveSnapshotOrder(t *testing.T) {
	fake := &fakeGerrit{branches: []models.BranchInfo{
		{Ref: "refs/heads/zebra", Revision: "a"},
		{Ref: "refs/heads/alpha", Revision: "b"},
		{Ref: "refs/meta/config", Revision: "c"},
		{Ref: "refs/heads/mid", Revision: "d"},
	}}
	bs := newTestBranches(t, fake)

	assert.Equal(t, []string{"refs/heads/zebra", "refs/heads/alpha", "refs/heads/mid"}, bs.Keys())
}

func TestBranchesGet(t *testing.T) {
	fake := &fakeGerrit{branches: []models.BranchInfo{
		{Ref: "refs/heads/master", Revision: "abc123"},
		{Ref: "refs/heads/feature/x", Revision: "def456"},
	}}
	bs := newTestBranches(t, fake)

	branch, err := bs.Get("refs/heads/master")
	require.NoError(t, err)
	assert.Equal(t, "master", branch.Name())
	assert.Equal(t, "abc123", branch.Revision)
	assert.Equal(t, "tools", branch.Project)

	nested, err := bs.Get("refs/heads/feature/x")
	require.NoError(t, err)
	assert.Equal(t, "feature/x", nested.Name())

	// Lookups answer from the snapshot, not the server
	assert.Equal(t, 1, fake.listCalls)
}

func TestBranchesGetRejectsBadPrefix(t *testing.T) {
	bs := newTestBranches(t, &fakeGerrit{branches: []models.BranchInfo{
		{Ref: "refs/heads/master", Revision: "abc123"},
	}})

	_, err := bs.Get("master")
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRef(err))
	assert.Contains(t, err.Error(), "branch ref should start with refs/heads/")
}

func TestBranchesGetUnknownBranch(t *testing.T) {
	bs := newTestBranches(t, &fakeGerrit{branches: []models.BranchInfo{
		{Ref: "refs/heads/master", Revision: "abc123"},
	}})

	_, err := bs.Get("refs/heads/doesnotexist")
	require.Error(t, err)
	assert.True(t, errors.IsUnknownBranch(err))
	assert.Contains(t, err.Error(), "refs/heads/doesnotexist")
}

func TestBranchesCreate(t *testing.T) {
	fake := &fakeGerrit{branches: []models.BranchInfo{
		{Ref: "refs/heads/master", Revision: "abc123"},
	}}
	bs := newTestBranches(t, fake)

	branch, err := bs.Create(context.Background(), "stable-3.9", &models.BranchInput{Revision: "abc123"})
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/stable-3.9", branch.Ref)
	assert.Equal(t, 1, fake.createCalls)

	// Snapshot stays stale until the next Poll
	assert.False(t, bs.Contains("refs/heads/stable-3.9"))
	assert.Equal(t, 1, bs.Len())
}

func TestBranchesCreateShortCircuitsOnCachedRef(t *testing.T) {
	fake := &fakeGerrit{branches: []models.BranchInfo{
		{Ref: "refs/heads/master", Revision: "abc123"},
	}}
	bs := newTestBranches(t, fake)

	// Existing name: the cached entry comes back and the input, even a
	// nil one, is never consulted
	branch, err := bs.Create(context.Background(), "master", nil)
	require.NoError(t, err)
	assert.Equal(t, "abc123", branch.Revision)
	assert.Equal(t, 0, fake.createCalls)
}

func TestBranchesCreateNilInput(t *testing.T) {
	fake := &fakeGerrit{}
	bs := newTestBranches(t, fake)

	_, err := bs.Create(context.Background(), "newbranch", nil)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidInput(err))
	assert.Equal(t, 0, fake.createCalls)
}

func TestBranchesPut(t *testing.T) {
	fake := &fakeGerrit{}
	bs := newTestBranches(t, fake)

	_, err := bs.Put(context.Background(), "nonsense", &models.BranchInput{})
	require.Error(t, err)
	assert.True(t, errors.IsInvalidRef(err))

	branch, err := bs.Put(context.Background(), "refs/heads/release", &models.BranchInput{Revision: "beef"})
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/release", branch.Ref)
	assert.Equal(t, 1, fake.createCalls)
}

func TestBranchesDeleteLeavesSnapshotStale(t *testing.T) {
	fake := &fakeGerrit{branches: []models.BranchInfo{
		{Ref: "refs/heads/master", Revision: "abc123"},
		{Ref: "refs/heads/old", Revision: "def456"},
	}}
	bs := newTestBranches(t, fake)

	require.NoError(t, bs.Delete(context.Background(), "refs/heads/old"))
	assert.Equal(t, 1, fake.deleteCalls)

	// Still visible until re-polled
	assert.True(t, bs.Contains("refs/heads/old"))
	assert.Equal(t, 2, bs.Len())

	fake.branches = fake.branches[:1]
	require.NoError(t, bs.Poll(context.Background()))
	assert.False(t, bs.Contains("refs/heads/old"))
	assert.Equal(t, 1, bs.Len())
}

func TestBranchesDeleteUnknownRef(t *testing.T) {
	fake := &fakeGerrit{}
	bs := newTestBranches(t, fake)

	err := bs.Delete(context.Background(), "refs/heads/ghost")
	require.Error(t, err)
	assert.True(t, errors.IsUnknownBranch(err))
	assert.Equal(t, 0, fake.deleteCalls)
}

func TestBranchesAllIsRestartable(t *testing.T) {
	bs := newTestBranches(t, &fakeGerrit{branches: []models.BranchInfo{
		{Ref: "refs/heads/a", Revision: "1"},
		{Ref: "refs/heads/b", Revision: "2"},
	}})

	for range 2 {
		var names []string
		for branch := range bs.All() {
			names = append(names, branch.Name())
		}
		assert.Equal(t, []string{"a", "b"}, names)
	}
}

func TestBranchesRefsStopsEarly(t *testing.T) {
	bs := newTestBranches(t, &fakeGerrit{branches: []models.BranchInfo{
		{Ref: "refs/heads/a", Revision: "1"},
		{Ref: "refs/heads/b", Revision: "2"},
		{Ref: "refs/heads/c", Revision: "3"},
	}})

	var first string
	for ref := range bs.Refs() {
		first = ref
		break
	}
	assert.Equal(t, "refs/heads/a", first)
}

func TestBranchNameWithoutPrefix(t *testing.T) {
	b := &Branch{BranchInfo: models.BranchInfo{Ref: "refs/tags/v1.0"}}
	assert.Equal(t, "refs/tags/v1.0", b.Name())

	b = &Branch{BranchInfo: models.BranchInfo{Ref: "refs/heads/main"}}
	assert.Equal(t, "main", b.Name())
}
