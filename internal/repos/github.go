package repos

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
)

// GitHubBranchChecker looks up branches through the GitHub REST API.
type GitHubBranchChecker struct {
	client *github.Client
}

var _ BranchChecker = &GitHubBranchChecker{} // Compile-time check

// NewGitHubBranchChecker returns a checker authenticated with token.
func NewGitHubBranchChecker(token string) *GitHubBranchChecker {
	return &GitHubBranchChecker{client: github.NewClient(nil).WithAuthToken(token)}
}

// newGitHubBranchCheckerWithBase points the checker at another API root.
func newGitHubBranchCheckerWithBase(token, base string) (*GitHubBranchChecker, error) {
	c := github.NewClient(nil).WithAuthToken(token)
	u, err := url.Parse(strings.TrimSuffix(base, "/") + "/")
	if err != nil {
		return nil, err
	}
	c.BaseURL = u
	return &GitHubBranchChecker{client: c}, nil
}

// BranchExists pages through the repository branches looking for branch.
func (g *GitHubBranchChecker) BranchExists(ctx context.Context, repoURL, branch string) (bool, error) {
	owner, name, err := ParseGitHubURL(repoURL)
	if err != nil {
		return false, err
	}

	opts := &github.BranchListOptions{
		ListOptions: github.ListOptions{
			PerPage: 100,
		},
	}
	for {
		branches, resp, err := g.client.Repositories.ListBranches(ctx, owner, name, opts)
		if err != nil {
			return false, fmt.Errorf("list branches failed: %w", err)
		}
		for _, b := range branches {
			if b.GetName() == branch {
				return true, nil
			}
		}
		if resp.NextPage == 0 {
			return false, nil
		}
		opts.Page = resp.NextPage
	}
}

// ParseGitHubURL extracts owner and repository from a github.com web or clone URL.
func ParseGitHubURL(raw string) (owner, name string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if !strings.EqualFold(u.Hostname(), "github.com") {
		return "", "", fmt.Errorf("not a github url: %s", raw)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("missing owner or repository in %s", raw)
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}
