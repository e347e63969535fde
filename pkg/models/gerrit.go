package models

// WebLinkInfo describes a link to an external site for a resource
type WebLinkInfo struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	ImageURL string `json:"image_url,omitempty"`
}

// BranchInfo represents a branch record as returned by the server
type BranchInfo struct {
	Ref       string        `json:"ref"`
	Revision  string        `json:"revision"`
	CanDelete bool          `json:"can_delete,omitempty"`
	WebLinks  []WebLinkInfo `json:"web_links,omitempty"`
}

// GitPersonInfo identifies the author or committer of a commit
type GitPersonInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
	TZ    int    `json:"tz"`
}

// CommitInfo represents a commit snapshot as returned by the server.
// Parents carry only the commit and subject fields.
type CommitInfo struct {
	Commit    string        `json:"commit"`
	Parents   []CommitInfo  `json:"parents,omitempty"`
	Author    GitPersonInfo `json:"author,omitempty"`
	Committer GitPersonInfo `json:"committer,omitempty"`
	Subject   string        `json:"subject"`
	Message   string        `json:"message,omitempty"`
}

// BranchInput is the payload for creating a branch
type BranchInput struct {
	Ref      string `json:"ref,omitempty"`
	Revision string `json:"revision,omitempty"`
}

// MergeInput describes a merge source to test against a target branch
type MergeInput struct {
	Source       string `json:"source"`
	SourceBranch string `json:"source_branch,omitempty"`
	Strategy     string `json:"strategy,omitempty"`
}

// MergeableInfo is the result of a mergeability check
type MergeableInfo struct {
	SubmitType    string   `json:"submit_type"`
	Strategy      string   `json:"strategy,omitempty"`
	Mergeable     bool     `json:"mergeable"`
	CommitMerged  bool     `json:"commit_merged,omitempty"`
	ContentMerged bool     `json:"content_merged,omitempty"`
	Conflicts     []string `json:"conflicts,omitempty"`
	MergeableInto []string `json:"mergeable_into,omitempty"`
}

// ReflogEntry is one entry of a branch reflog
type ReflogEntry struct {
	OldID   string        `json:"old_id"`
	NewID   string        `json:"new_id"`
	Who     GitPersonInfo `json:"who"`
	Comment string        `json:"comment,omitempty"`
}

// CherryPickInput is the payload for cherry-picking a commit
type CherryPickInput struct {
	Message        string `json:"message,omitempty"`
	Destination    string `json:"destination"`
	Base           string `json:"base,omitempty"`
	Parent         int    `json:"parent,omitempty"`
	Notify         string `json:"notify,omitempty"`
	KeepReviewers  bool   `json:"keep_reviewers,omitempty"`
	AllowConflicts bool   `json:"allow_conflicts,omitempty"`
}

// ChangeInfo is the subset of a change record a cherry-pick returns
type ChangeInfo struct {
	ID        string `json:"id"`
	Project   string `json:"project"`
	Branch    string `json:"branch"`
	ChangeID  string `json:"change_id"`
	Subject   string `json:"subject"`
	Status    string `json:"status"`
	Number    int    `json:"_number,omitempty"`
	Created   string `json:"created,omitempty"`
	Updated   string `json:"updated,omitempty"`
	Insertion int    `json:"insertions,omitempty"`
	Deletion  int    `json:"deletions,omitempty"`
}

// FileInfo describes how a file changed in a commit
type FileInfo struct {
	Status        string `json:"status,omitempty"`
	Binary        bool   `json:"binary,omitempty"`
	OldPath       string `json:"old_path,omitempty"`
	LinesInserted int    `json:"lines_inserted,omitempty"`
	LinesDeleted  int    `json:"lines_deleted,omitempty"`
	SizeDelta     int64  `json:"size_delta"`
	Size          int64  `json:"size"`
}

// IncludedInInfo lists the branches and tags that contain a commit
type IncludedInInfo struct {
	Branches []string            `json:"branches"`
	Tags     []string            `json:"tags"`
	External map[string][]string `json:"external,omitempty"`
}
