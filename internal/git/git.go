// Package git provides the repository operations relprep needs for release
// preparation: staging the changelog, querying the staged diff against HEAD,
// and creating the release-prep commit. It uses the go-git library for all
// operations so no git binary is required at runtime.
package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// ErrNoIdentity is returned when no commit author can be resolved from
// git configuration.
var ErrNoIdentity = errors.New("no commit identity configured (set user.name and user.email in git config)")

// Repo is a handle to an opened git repository. All paths passed to its
// methods are relative to the repository root and use forward slashes.
type Repo struct {
	repo *git.Repository
}

// Open opens the repository containing path, traversing up the directory
// tree to find the .git directory. If path is empty, the current working
// directory is used.
func Open(path string) (*Repo, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return &Repo{repo: repo}, nil
}

// Root returns the absolute path of the working tree root.
func (r *Repo) Root() (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return worktree.Filesystem.Root(), nil
}

// GitDir returns the path of the repository's .git directory.
func (r *Repo) GitDir() (string, error) {
	if storage, ok := r.repo.Storer.(*filesystem.Storage); ok {
		return storage.Filesystem().Root(), nil
	}

	root, err := r.Root()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, git.GitDirName), nil
}

// CurrentBranch returns the short name of the checked-out branch.
// Returns empty string in detached HEAD state or on an unborn branch.
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}

	if !head.Name().IsBranch() {
		logDebug("[git] CurrentBranch: detached HEAD state")
		return "", nil
	}

	return head.Name().Short(), nil
}

// HeadSHA returns the hash of the current HEAD commit, or empty string on
// an unborn branch.
func (r *Repo) HeadSHA() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	return head.Hash().String(), nil
}

// Stage adds path to the index. A deleted file is staged as a deletion,
// matching 'git add' semantics.
func (r *Repo) Stage(path string) error {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	logDebug("[git] staging %s", path)
	if _, err := worktree.Add(path); err != nil {
		return fmt.Errorf("staging %s: %w", path, err)
	}
	return nil
}

// HasStagedChanges reports whether the index differs from HEAD for path.
// A path present in the index but absent from HEAD counts as changed, as
// does a staged deletion. On an unborn branch any index entry is a change.
func (r *Repo) HasStagedChanges(path string) (bool, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return false, fmt.Errorf("reading index: %w", err)
	}

	entry, entryErr := idx.Entry(path)
	if entryErr != nil && !errors.Is(entryErr, index.ErrEntryNotFound) {
		return false, fmt.Errorf("reading index entry for %s: %w", path, entryErr)
	}
	inIndex := entryErr == nil

	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			logDebug("[git] HasStagedChanges: unborn branch, staged=%v", inIndex)
			return inIndex, nil
		}
		return false, fmt.Errorf("getting HEAD reference: %w", err)
	}

	commit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return false, fmt.Errorf("reading HEAD commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return false, fmt.Errorf("reading HEAD tree: %w", err)
	}

	treeEntry, err := tree.FindEntry(path)
	if err != nil {
		if errors.Is(err, object.ErrEntryNotFound) || errors.Is(err, object.ErrDirectoryNotFound) {
			// Not in HEAD: a staged entry is an addition.
			logDebug("[git] HasStagedChanges: %s not in HEAD, staged=%v", path, inIndex)
			return inIndex, nil
		}
		return false, fmt.Errorf("reading HEAD entry for %s: %w", path, err)
	}

	if !inIndex {
		// In HEAD but gone from the index: staged deletion.
		return true, nil
	}

	changed := entry.Hash != treeEntry.Hash
	logDebug("[git] HasStagedChanges: %s changed=%v", path, changed)
	return changed, nil
}

// Commit creates a commit covering exactly path and returns its hash.
// Index entries for any other staged paths are left out of the commit
// tree and remain staged afterwards. The author identity is resolved
// from git config (repository, then global, then system scope).
func (r *Repo) Commit(message, path string) (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}

	idx, err := r.repo.Storer.Index()
	if err != nil {
		return "", fmt.Errorf("reading index: %w", err)
	}

	scoped, err := r.scopedIndex(idx, path)
	if err != nil {
		return "", err
	}

	// Swap in an index that is HEAD everywhere except path, commit it,
	// then put the operator's index back. Whatever else was staged stays
	// staged against the new HEAD.
	if err := r.repo.Storer.SetIndex(scoped); err != nil {
		return "", fmt.Errorf("writing index: %w", err)
	}

	hash, commitErr := worktree.Commit(message, &git.CommitOptions{})

	if err := r.repo.Storer.SetIndex(idx); err != nil {
		return "", fmt.Errorf("restoring index: %w", err)
	}
	if commitErr != nil {
		if errors.Is(commitErr, git.ErrMissingAuthor) {
			return "", ErrNoIdentity
		}
		return "", fmt.Errorf("creating commit: %w", commitErr)
	}

	logDebug("[git] created commit %s scoped to %s", hash, path)
	return hash.String(), nil
}

// scopedIndex builds an index whose tree matches HEAD for every path
// except path, which carries its entry from idx. A path missing from idx
// is a staged deletion and stays out of the result. On an unborn branch
// the result holds at most the path entry.
func (r *Repo) scopedIndex(idx *index.Index, path string) (*index.Index, error) {
	scoped := &index.Index{Version: idx.Version}

	head, err := r.repo.Head()
	if err != nil && !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}
	if err == nil {
		commit, err := r.repo.CommitObject(head.Hash())
		if err != nil {
			return nil, fmt.Errorf("reading HEAD commit: %w", err)
		}
		tree, err := commit.Tree()
		if err != nil {
			return nil, fmt.Errorf("reading HEAD tree: %w", err)
		}
		if err := tree.Files().ForEach(func(f *object.File) error {
			if f.Name == path {
				return nil
			}
			scoped.Entries = append(scoped.Entries, &index.Entry{
				Name: f.Name,
				Hash: f.Hash,
				Mode: f.Mode,
			})
			return nil
		}); err != nil {
			return nil, fmt.Errorf("walking HEAD tree: %w", err)
		}
	}

	entry, err := idx.Entry(path)
	if err != nil {
		if errors.Is(err, index.ErrEntryNotFound) {
			return scoped, nil
		}
		return nil, fmt.Errorf("reading index entry for %s: %w", path, err)
	}
	pathEntry := *entry
	scoped.Entries = append(scoped.Entries, &pathEntry)

	sort.Slice(scoped.Entries, func(i, j int) bool {
		return scoped.Entries[i].Name < scoped.Entries[j].Name
	})
	return scoped, nil
}

// Identity returns the commit author that a Commit call would use,
// resolving user.name and user.email across config scopes. Returns
// ErrNoIdentity when either half is missing.
func (r *Repo) Identity() (name, email string, err error) {
	cfg, err := r.repo.ConfigScoped(config.SystemScope)
	if err != nil {
		return "", "", fmt.Errorf("reading git config: %w", err)
	}

	name, email = cfg.User.Name, cfg.User.Email
	if cfg.Author.Name != "" {
		name = cfg.Author.Name
	}
	if cfg.Author.Email != "" {
		email = cfg.Author.Email
	}

	if name == "" || email == "" {
		return name, email, ErrNoIdentity
	}
	return name, email, nil
}
