package commitguard

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Branch sources selectable with --branch-source.
const (
	SourceGit   = "git"
	SourceGoGit = "go-git"
)

const defaultGitBinary = "git"

// BranchReader returns the abbreviated name of the checked out branch.
type BranchReader interface {
	BranchName(ctx context.Context) (string, error)
}

// NewBranchReader returns the BranchReader for source, operating on dir.
func NewBranchReader(source string, dir string) (BranchReader, error) {
	switch source {
	case SourceGit, "":
		return GitCommand{Dir: dir}, nil

	case SourceGoGit:
		return Repository{Path: dir}, nil

	default:
		return nil, fmt.Errorf("unknown branch source %q, must be %q or %q", source, SourceGit, SourceGoGit)
	}
}

// GitCommand reads the branch by running `git rev-parse --abbrev-ref HEAD`.
type GitCommand struct {
	// Dir is the working directory of the git process. Empty means the
	// current directory.
	Dir string
	// Binary is the git executable. Empty means "git" from PATH.
	Binary string
}

// BranchName runs git and returns its trimmed output. On a detached HEAD git
// prints "HEAD".
func (g GitCommand) BranchName(ctx context.Context) (string, error) {
	binary := g.Binary
	if binary == "" {
		binary = defaultGitBinary
	}

	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, binary, "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = g.Dir
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("failed to get branch name: %w: %s", err, detail)
		}

		return "", fmt.Errorf("failed to get branch name: %w", err)
	}

	return strings.TrimSpace(string(out)), nil
}

// Repository reads the branch from HEAD with go-git, without a git binary.
type Repository struct {
	// Path is any directory inside the work tree.
	Path string
}

// BranchName resolves HEAD one level. A symbolic HEAD yields the short name
// of its target, even when the branch has no commits yet. A detached HEAD
// yields "HEAD", the same as git rev-parse.
func (r Repository) BranchName(_ context.Context) (string, error) {
	path := r.Path
	if path == "" {
		path = "."
	}

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open git repository: %w", err)
	}

	head, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD: %w", err)
	}

	if head.Type() == plumbing.SymbolicReference {
		return head.Target().Short(), nil
	}

	return plumbing.HEAD.String(), nil
}
