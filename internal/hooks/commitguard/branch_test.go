package commitguard_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breml/commitguard/internal/hooks/commitguard"
)

// createTestRepo initializes a repository with one commit on master and
// returns its directory, the repository and the commit hash.
func createTestRepo(t *testing.T) (string, *git.Repository, plumbing.Hash) {
	t.Helper()

	tmpDir := t.TempDir()

	repo, err := git.PlainInit(tmpDir, false)
	require.NoError(t, err, "failed to init repo")

	worktree, err := repo.Worktree()
	require.NoError(t, err, "failed to get worktree")

	err = os.WriteFile(filepath.Join(tmpDir, ".gitkeep"), []byte(""), 0o644)
	require.NoError(t, err, "failed to write base file")

	_, err = worktree.Add(".gitkeep")
	require.NoError(t, err, "failed to add base file")

	hash, err := worktree.Commit("chore(repo): initial setup", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test User",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err, "failed to create base commit")

	return tmpDir, repo, hash
}

// switchBranch points HEAD at a new branch created from hash.
func switchBranch(t *testing.T, repo *git.Repository, branch string, hash plumbing.Hash) {
	t.Helper()

	ref := plumbing.NewBranchReferenceName(branch)

	err := repo.Storer.SetReference(plumbing.NewHashReference(ref, hash))
	require.NoError(t, err, "failed to create branch %s", branch)

	err = repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, ref))
	require.NoError(t, err, "failed to point HEAD at %s", branch)
}

func detachHead(t *testing.T, repo *git.Repository, hash plumbing.Hash) {
	t.Helper()

	err := repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, hash))
	require.NoError(t, err, "failed to detach HEAD")
}

func requireGit(t *testing.T) {
	t.Helper()

	_, err := exec.LookPath("git")
	if err != nil {
		t.Skip("git binary not available")
	}
}

func TestRepository_BranchName(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, repo *git.Repository, hash plumbing.Hash)
		want  string
	}{
		{
			name:  "initial branch",
			setup: func(*testing.T, *git.Repository, plumbing.Hash) {},
			want:  "master",
		},
		{
			name: "feature branch with issue",
			setup: func(t *testing.T, repo *git.Repository, hash plumbing.Hash) {
				t.Helper()
				switchBranch(t, repo, "feat/#12-git-hooks", hash)
			},
			want: "feat/#12-git-hooks",
		},
		{
			name: "main",
			setup: func(t *testing.T, repo *git.Repository, hash plumbing.Hash) {
				t.Helper()
				switchBranch(t, repo, "main", hash)
			},
			want: "main",
		},
		{
			name: "detached head",
			setup: func(t *testing.T, repo *git.Repository, hash plumbing.Hash) {
				t.Helper()
				detachHead(t, repo, hash)
			},
			want: "HEAD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, repo, hash := createTestRepo(t)
			tt.setup(t, repo, hash)

			got, err := commitguard.Repository{Path: dir}.BranchName(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepository_BranchName_Subdirectory(t *testing.T) {
	dir, repo, hash := createTestRepo(t)
	switchBranch(t, repo, "fix/login-timeout", hash)

	subDir := filepath.Join(dir, "internal", "pkg")
	require.NoError(t, os.MkdirAll(subDir, 0o755))

	got, err := commitguard.Repository{Path: subDir}.BranchName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fix/login-timeout", got)
}

func TestRepository_BranchName_UnbornBranch(t *testing.T) {
	dir := t.TempDir()

	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	got, err := commitguard.Repository{Path: dir}.BranchName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "master", got)
}

func TestRepository_BranchName_NotARepository(t *testing.T) {
	_, err := commitguard.Repository{Path: t.TempDir()}.BranchName(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open git repository")
}

func TestGitCommand_BranchName(t *testing.T) {
	requireGit(t)

	dir, repo, hash := createTestRepo(t)
	switchBranch(t, repo, "feat/#12-git-hooks", hash)

	got, err := commitguard.GitCommand{Dir: dir}.BranchName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "feat/#12-git-hooks", got)

	detachHead(t, repo, hash)

	got, err = commitguard.GitCommand{Dir: dir}.BranchName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "HEAD", got)
}

func TestGitCommand_BranchName_Errors(t *testing.T) {
	t.Run("missing binary", func(t *testing.T) {
		reader := commitguard.GitCommand{
			Dir:    t.TempDir(),
			Binary: filepath.Join(t.TempDir(), "no-such-git"),
		}

		_, err := reader.BranchName(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get branch name")
	})

	t.Run("missing directory", func(t *testing.T) {
		requireGit(t)

		reader := commitguard.GitCommand{Dir: filepath.Join(t.TempDir(), "missing")}

		_, err := reader.BranchName(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get branch name")
	})

	t.Run("canceled context", func(t *testing.T) {
		requireGit(t)

		dir, _, _ := createTestRepo(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := commitguard.GitCommand{Dir: dir}.BranchName(ctx)
		require.Error(t, err)
	})
}

func TestNewBranchReader(t *testing.T) {
	reader, err := commitguard.NewBranchReader(commitguard.SourceGit, "repo")
	require.NoError(t, err)
	assert.Equal(t, commitguard.GitCommand{Dir: "repo"}, reader)

	reader, err = commitguard.NewBranchReader("", "repo")
	require.NoError(t, err)
	assert.Equal(t, commitguard.GitCommand{Dir: "repo"}, reader)

	reader, err = commitguard.NewBranchReader(commitguard.SourceGoGit, "repo")
	require.NoError(t, err)
	assert.Equal(t, commitguard.Repository{Path: "repo"}, reader)

	_, err = commitguard.NewBranchReader("svn", "repo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown branch source "svn"`)
}
