package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	return c.exec(ctx, repoPath, fullArgs...)
}

// exec runs git with the given arguments and maps failures to readable errors.
func (c *LocalGitClient) exec(ctx context.Context, where string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s", where, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetCommitLog implements the GitClient interface.
func (c *LocalGitClient) GetCommitLog(ctx context.Context, repoPath string, window DateWindow) ([]byte, error) {
	args := []string{
		"log",
		"--all",
		"--since=" + window.Since(),
		"--until=" + window.Until(),
		"--pretty=format:%H|%ae|%ct|%s",
	}
	return c.Run(ctx, repoPath, args...)
}

// GetCommitNumstat implements the GitClient interface.
func (c *LocalGitClient) GetCommitNumstat(ctx context.Context, repoPath string, hash string) ([]byte, error) {
	return c.Run(ctx, repoPath, "show", "--numstat", "--pretty=format:", hash)
}

// Pull implements the GitClient interface.
func (c *LocalGitClient) Pull(ctx context.Context, repoPath string) ([]byte, error) {
	return c.Run(ctx, repoPath, "pull")
}

// Clone implements the GitClient interface.
func (c *LocalGitClient) Clone(ctx context.Context, url string, dest string) error {
	_, err := c.exec(ctx, dest, "clone", url, dest)
	return err
}

// Checkout implements the GitClient interface.
func (c *LocalGitClient) Checkout(ctx context.Context, repoPath string, ref string) error {
	_, err := c.Run(ctx, repoPath, "checkout", ref)
	return err
}

// GetRemoteURL implements the GitClient interface.
func (c *LocalGitClient) GetRemoteURL(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "remote", "get-url", "origin")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
