package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sync"
	"time"

	"github.com/go-git/go-billy/v6/memfs"
	"github.com/go-git/go-billy/v6/osfs"
	"github.com/go-git/go-billy/v6/util"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing/cache"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/storage/filesystem"
	"github.com/go-git/go-git/v6/storage/memory"

	"github.com/mdbgo/mdbsql/export"
)

var (
	ErrNotInitialized = errors.New("snapshot store not initialized")
	ErrNoSnapshots    = errors.New("no snapshots committed")
)

// Author identifies who recorded a snapshot.
type Author struct {
	Name  string
	Email string
}

// Entry is one recorded snapshot.
type Entry struct {
	Hash    string
	Message string
	Author  string
	When    time.Time
}

// Store is a git-backed history of export dumps. A Store may be shared
// across goroutines.
type Store struct {
	repo *git.Repository
	mu   sync.Mutex
}

// NewMemoryStore returns a Store backed entirely by memory.
func NewMemoryStore() (*Store, error) {
	wt := memfs.New()
	storer := memory.NewStorage()

	repo, err := git.Init(storer, git.WithWorkTree(wt))
	if err != nil {
		return nil, err
	}

	return &Store{repo: repo}, nil
}

// NewFileStore returns a Store rooted at baseDir, creating the
// repository on first use and reopening it afterwards.
func NewFileStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	wt := osfs.New(baseDir)
	fs, err := wt.Chroot(".git")
	if err != nil {
		return nil, err
	}

	storer := filesystem.NewStorageWithOptions(
		fs,
		cache.NewObjectLRUDefault(),
		filesystem.Options{ExclusiveAccess: true})

	var repo *git.Repository
	if _, statErr := os.Stat(fs.Root()); statErr != nil {
		repo, err = git.Init(storer, git.WithWorkTree(wt))
	} else {
		repo, err = git.Open(storer, wt)
	}
	if err != nil {
		return nil, err
	}

	return &Store{repo: repo}, nil
}

// Snapshot writes each dump as <table>/schema.sql and <table>/data.sql
// in the worktree, stages the lot, and commits. It returns the commit
// hash. Committing an unchanged set of dumps is an error.
func (s *Store) Snapshot(dumps []export.Dump, author Author, message string) (string, error) {
	if s == nil || s.repo == nil {
		return "", ErrNotInitialized
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to get worktree: %w", err)
	}

	for _, d := range dumps {
		dir := d.Table
		if err := w.Filesystem.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create %s: %w", dir, err)
		}
		if err := util.WriteFile(w.Filesystem, path.Join(dir, "schema.sql"), []byte(d.Schema), 0644); err != nil {
			return "", fmt.Errorf("failed to write schema for %s: %w", d.Table, err)
		}
		if err := util.WriteFile(w.Filesystem, path.Join(dir, "data.sql"), []byte(d.Data), 0644); err != nil {
			return "", fmt.Errorf("failed to write data for %s: %w", d.Table, err)
		}
	}

	if err := w.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", fmt.Errorf("failed to stage dumps: %w", err)
	}

	hash, err := w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  author.Name,
			Email: author.Email,
			When:  time.Now(),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return hash.String(), nil
}

// History lists recorded snapshots, newest first.
func (s *Store) History() ([]Entry, error) {
	if s == nil || s.repo == nil {
		return nil, ErrNotInitialized
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	head, err := s.repo.Head()
	if err != nil {
		return nil, ErrNoSnapshots
	}

	iter, err := s.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	defer iter.Close()

	var entries []Entry
	err = iter.ForEach(func(c *object.Commit) error {
		entries = append(entries, Entry{
			Hash:    c.Hash.String(),
			Message: c.Message,
			Author:  c.Author.Name,
			When:    c.Author.When,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	return entries, nil
}

// Read returns the last committed dump of table.
func (s *Store) Read(table string) (export.Dump, error) {
	if s == nil || s.repo == nil {
		return export.Dump{}, ErrNotInitialized
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	head, err := s.repo.Head()
	if err != nil {
		return export.Dump{}, ErrNoSnapshots
	}

	commit, err := s.repo.CommitObject(head.Hash())
	if err != nil {
		return export.Dump{}, fmt.Errorf("failed to get head commit: %w", err)
	}

	schema, err := fileContents(commit, path.Join(table, "schema.sql"))
	if err != nil {
		return export.Dump{}, err
	}
	data, err := fileContents(commit, path.Join(table, "data.sql"))
	if err != nil {
		return export.Dump{}, err
	}

	return export.Dump{Table: table, Schema: schema, Data: data}, nil
}

func fileContents(commit *object.Commit, name string) (string, error) {
	f, err := commit.File(name)
	if err != nil {
		return "", fmt.Errorf("no snapshot of %s: %w", name, err)
	}
	return f.Contents()
}
