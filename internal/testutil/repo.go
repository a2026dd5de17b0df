// Package testutil provides test fixtures for relprep tests: throwaway git
// repositories built with go-git (so tests never require a git binary) and
// a helper-process harness for exercising real subprocess execution.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// TestRepo is a temporary git repository rooted in a t.TempDir.
// The repository config carries a commit identity so code paths that
// resolve the author from config work without global git setup.
type TestRepo struct {
	T    *testing.T
	Dir  string
	Repo *git.Repository
}

// NewRepo initializes an empty repository in a fresh temp directory.
func NewRepo(t *testing.T) *TestRepo {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}

	cfg, err := repo.Config()
	if err != nil {
		t.Fatalf("read repo config: %v", err)
	}
	cfg.User.Name = "Release Bot"
	cfg.User.Email = "release-bot@example.com"
	if err := repo.SetConfig(cfg); err != nil {
		t.Fatalf("write repo config: %v", err)
	}

	return &TestRepo{T: t, Dir: dir, Repo: repo}
}

// NewRepoWithoutIdentity initializes a repository with no commit identity,
// for exercising the missing-identity error paths. The caller should
// isolate HOME so a developer's global git config cannot leak in.
func NewRepoWithoutIdentity(t *testing.T) *TestRepo {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}

	return &TestRepo{T: t, Dir: dir, Repo: repo}
}

// WriteFile writes content to a path relative to the repo root, creating
// parent directories as needed.
func (r *TestRepo) WriteFile(rel, content string) {
	r.T.Helper()
	full := filepath.Join(r.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		r.T.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		r.T.Fatalf("write %s: %v", rel, err)
	}
}

// Remove deletes a file relative to the repo root.
func (r *TestRepo) Remove(rel string) {
	r.T.Helper()
	if err := os.Remove(filepath.Join(r.Dir, rel)); err != nil {
		r.T.Fatalf("remove %s: %v", rel, err)
	}
}

// Add stages a path relative to the repo root.
func (r *TestRepo) Add(rel string) {
	r.T.Helper()
	worktree, err := r.Repo.Worktree()
	if err != nil {
		r.T.Fatalf("get worktree: %v", err)
	}
	if _, err := worktree.Add(rel); err != nil {
		r.T.Fatalf("stage %s: %v", rel, err)
	}
}

// Commit commits the current index and returns the commit hash.
func (r *TestRepo) Commit(message string) string {
	r.T.Helper()
	worktree, err := r.Repo.Worktree()
	if err != nil {
		r.T.Fatalf("get worktree: %v", err)
	}
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Release Bot",
			Email: "release-bot@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		r.T.Fatalf("commit: %v", err)
	}
	return hash.String()
}

// CommitFile writes, stages, and commits a single file.
func (r *TestRepo) CommitFile(rel, content, message string) string {
	r.T.Helper()
	r.WriteFile(rel, content)
	r.Add(rel)
	return r.Commit(message)
}

// Head returns the current HEAD commit hash.
func (r *TestRepo) Head() string {
	r.T.Helper()
	head, err := r.Repo.Head()
	if err != nil {
		r.T.Fatalf("get HEAD: %v", err)
	}
	return head.Hash().String()
}
