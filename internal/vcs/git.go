package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNotRepository reports a directory outside any git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Revision identifies the trainer checkout an experiment batch ran against.
type Revision struct {
	Commit string `json:"commit"`
	Branch string `json:"branch,omitempty"`
	Dirty  bool   `json:"dirty"`
}

// Short returns the abbreviated commit with a dirty marker.
func (r Revision) Short() string {
	commit := r.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if r.Dirty {
		return commit + " (dirty)"
	}
	return commit
}

// gitRunner executes git commands in a directory.
type gitRunner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// execGitRunner invokes git via the system binary.
type execGitRunner struct{}

// Run executes a git command and returns trimmed stdout.
func (execGitRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if strings.Contains(msg, "not a git repository") {
			return "", ErrNotRepository
		}
		if msg == "" {
			msg = "no stderr"
		}
		return "", fmt.Errorf("git %s: %w (%s)", strings.Join(args, " "), err, msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Client reads revisions and allows dependency injection.
type Client struct {
	runner gitRunner
}

// NewClient constructs a git client with an optional runner override.
func NewClient(runner gitRunner) Client {
	if runner == nil {
		runner = execGitRunner{}
	}
	return Client{runner: runner}
}

var defaultClient = NewClient(nil)

// ReadRevision returns the checked-out revision of the work tree containing dir.
func ReadRevision(ctx context.Context, dir string) (Revision, error) {
	return defaultClient.ReadRevision(ctx, dir)
}

// ReadRevision returns the checked-out revision of the work tree containing dir.
func (c Client) ReadRevision(ctx context.Context, dir string) (Revision, error) {
	if strings.TrimSpace(dir) == "" {
		return Revision{}, fmt.Errorf("directory is empty")
	}
	commit, err := c.runner.Run(ctx, dir, "rev-parse", "HEAD")
	if err != nil {
		if errors.Is(err, ErrNotRepository) {
			return Revision{}, err
		}
		return Revision{}, fmt.Errorf("resolve HEAD: %w", err)
	}
	branch, err := c.runner.Run(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return Revision{}, fmt.Errorf("resolve branch: %w", err)
	}
	if branch == "HEAD" {
		branch = ""
	}
	status, err := c.runner.Run(ctx, dir, "status", "--porcelain", "--untracked-files=no")
	if err != nil {
		return Revision{}, fmt.Errorf("check dirty state: %w", err)
	}
	return Revision{
		Commit: commit,
		Branch: branch,
		Dirty:  strings.TrimSpace(status) != "",
	}, nil
}
