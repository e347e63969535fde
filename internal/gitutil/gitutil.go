package gitutil

import (
	"fmt"
	"net/url"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// remoteNames lists the remotes consulted for the Gerrit project, in
// order of preference
var remoteNames = []string{"gerrit", "origin"}

// DetectProject derives the Gerrit project name from the remote URL of
// the checkout at path. Used by the CLI when --project is omitted.
func DetectProject(path string) (string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("not inside a git checkout: %w", err)
	}

	for _, name := range remoteNames {
		remote, err := repo.Remote(name)
		if err != nil {
			continue
		}
		urls := remote.Config().URLs
		if len(urls) == 0 {
			continue
		}
		return ProjectFromURL(urls[0])
	}

	return "", fmt.Errorf("no gerrit or origin remote configured")
}

// CurrentBranch returns the short name of the checked-out branch
func CurrentBranch(path string) (string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("not inside a git checkout: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", fmt.Errorf("HEAD is detached")
	}
	return head.Name().Short(), nil
}

// ProjectFromURL extracts the Gerrit project name from a clone URL.
// Handles http(s) and ssh URLs as well as scp-like syntax; Gerrit's
// authenticated /a/ path prefix and a trailing .git are stripped.
func ProjectFromURL(cloneURL string) (string, error) {
	cloneURL = strings.TrimSpace(cloneURL)
	if cloneURL == "" {
		return "", fmt.Errorf("empty remote URL")
	}

	var path string
	if strings.Contains(cloneURL, "://") {
		parsed, err := url.Parse(cloneURL)
		if err != nil {
			return "", fmt.Errorf("invalid remote URL %q: %w", cloneURL, err)
		}
		path = parsed.Path
	} else if at := strings.Index(cloneURL, "@"); at >= 0 && strings.Contains(cloneURL[at:], ":") {
		// scp-like: user@host:project
		path = cloneURL[strings.Index(cloneURL[at:], ":")+at+1:]
	} else {
		path = cloneURL
	}

	path = strings.Trim(path, "/")
	path = strings.TrimPrefix(path, "a/")
	path = strings.TrimSuffix(path, ".git")

	if path == "" {
		return "", fmt.Errorf("could not derive a project name from %q", cloneURL)
	}
	return path, nil
}
