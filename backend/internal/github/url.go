package github

import (
	"net/url"
	"regexp"
	"strings"

	apperrors "repograph/backend/pkg/errors"
)

// RepoRef identifies a GitHub repository
type RepoRef struct {
	Owner string
	Repo  string
}

// FullName returns "owner/repo"
func (r RepoRef) FullName() string {
	return r.Owner + "/" + r.Repo
}

// shorthandPattern covers SSH-style and scheme-less forms such as
// git@github.com:owner/repo.git and github.com/owner/repo
var shorthandPattern = regexp.MustCompile(`github\.com[:/](.+?)/(.+?)(\.git)?$`)

// ParseRepoURL extracts owner and repo from a GitHub repository URL.
// Full URLs are parsed first; anything else falls back to the shorthand pattern.
func ParseRepoURL(raw string) (RepoRef, error) {
	raw = strings.TrimSpace(raw)

	if ref, ok := parseFullURL(raw); ok {
		return ref, nil
	}
	if m := shorthandPattern.FindStringSubmatch(raw); m != nil {
		ref := RepoRef{Owner: m[1], Repo: strings.TrimSuffix(m[2], ".git")}
		if ref.Owner != "" && ref.Repo != "" {
			return ref, nil
		}
	}
	return RepoRef{}, apperrors.NewInvalidRepoURL(raw)
}

func parseFullURL(raw string) (RepoRef, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() != "github.com" {
		return RepoRef{}, false
	}
	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return RepoRef{}, false
	}
	repo := strings.TrimSuffix(parts[1], ".git")
	if repo == "" {
		return RepoRef{}, false
	}
	return RepoRef{Owner: parts[0], Repo: repo}, true
}
