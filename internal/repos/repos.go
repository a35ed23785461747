// Package repos keeps the local repository clones current.
package repos

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rehman-1/git-asana-backend/internal/contract"
	"github.com/sirupsen/logrus"
)

// Status strings reported per repository.
const (
	StatusMissingDir = "Directory does not exist"
	StatusExists     = "already exists"
	StatusCloned     = "cloned"
	StatusClonedProd = "cloned (prod)"
	StatusNoCloneURL = "no clone url configured"
)

// ProdBranch is checked out after a fresh clone when it exists.
const ProdBranch = "prod"

// BranchChecker reports whether a remote repository has a branch.
type BranchChecker interface {
	BranchExists(ctx context.Context, repoURL, branch string) (bool, error)
}

// Manager runs pull and clone operations over the configured repositories.
type Manager struct {
	client  contract.GitClient
	repos   []contract.RepoConfig
	checker BranchChecker
	log     logrus.FieldLogger
}

// NewManager returns a Manager. checker may be nil, in which case setup
// always attempts the prod checkout.
func NewManager(client contract.GitClient, repos []contract.RepoConfig, checker BranchChecker) *Manager {
	return &Manager{
		client:  client,
		repos:   repos,
		checker: checker,
		log:     contract.ComponentLogger("repos"),
	}
}

// Pull runs git pull in every repository and maps repository name to the
// trimmed output, the missing-directory status or the error text.
func (m *Manager) Pull(ctx context.Context) map[string]string {
	out := make(map[string]string, len(m.repos))
	for _, repo := range m.repos {
		if !contract.IsDir(repo.Path) {
			out[repo.Name] = StatusMissingDir
			continue
		}
		stdout, err := m.client.Pull(ctx, repo.Path)
		if err != nil {
			m.log.WithError(err).WithField("repo", repo.Name).Warn("git pull failed")
			out[repo.Name] = err.Error()
			continue
		}
		out[repo.Name] = strings.TrimSpace(string(stdout))
	}
	return out
}

// Setup clones every repository that has a clone URL and is not yet present.
// A directory without .git is replaced. After cloning the prod branch is
// checked out when available.
func (m *Manager) Setup(ctx context.Context) map[string]string {
	out := make(map[string]string, len(m.repos))
	for _, repo := range m.repos {
		status, err := m.setupRepo(ctx, repo)
		if err != nil {
			m.log.WithError(err).WithField("repo", repo.Name).Error("repository setup failed")
			out[repo.Name] = err.Error()
			continue
		}
		m.log.WithFields(logrus.Fields{"repo": repo.Name, "status": status}).Info("repository setup")
		out[repo.Name] = status
	}
	return out
}

func (m *Manager) setupRepo(ctx context.Context, repo contract.RepoConfig) (string, error) {
	if repo.CloneURL == "" {
		return StatusNoCloneURL, nil
	}

	if _, err := os.Stat(repo.Path); err == nil {
		if contract.IsDir(filepath.Join(repo.Path, ".git")) {
			return StatusExists, nil
		}
		if err := os.RemoveAll(repo.Path); err != nil {
			return "", fmt.Errorf("remove non-git directory: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(repo.Path), 0o755); err != nil {
		return "", err
	}
	if err := m.client.Clone(ctx, repo.CloneURL, repo.Path); err != nil {
		return "", fmt.Errorf("clone %s: %w", repo.CloneURL, err)
	}

	if !m.hasProdBranch(ctx, repo) {
		return StatusCloned, nil
	}
	if err := m.client.Checkout(ctx, repo.Path, ProdBranch); err != nil {
		m.log.WithField("repo", repo.Name).Info("no prod branch, staying on default branch")
		return StatusCloned, nil
	}
	return StatusClonedProd, nil
}

// hasProdBranch asks the checker when one is configured. Checker failures
// fall back to attempting the checkout.
func (m *Manager) hasProdBranch(ctx context.Context, repo contract.RepoConfig) bool {
	if m.checker == nil || repo.URL == "" {
		return true
	}
	ok, err := m.checker.BranchExists(ctx, repo.URL, ProdBranch)
	if err != nil {
		m.log.WithError(err).WithField("repo", repo.Name).Debug("branch lookup failed")
		return true
	}
	return ok
}
