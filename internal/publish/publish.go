// Package publish commits regenerated output directories that are git work
// trees, so a site checkout can be pushed or pulled by its own tooling.
package publish

import (
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// Options describe the commit written into each repository.
type Options struct {
	Author  string
	Email   string
	Message string
	Now     func() time.Time
}

// Result reports what happened to one repository.
type Result struct {
	Path    string
	Commit  string
	Changed int
	Skipped bool
}

// Commit stages every change under each repository and commits it. A clean
// work tree is skipped. The first failure aborts the remaining repositories.
func Commit(repos []string, opts Options) ([]Result, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	results := make([]Result, 0, len(repos))
	for _, path := range repos {
		res, err := commitOne(path, opts)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func commitOne(path string, opts Options) (Result, error) {
	res := Result{Path: path}

	repo, err := git.PlainOpen(path)
	if err != nil {
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			return res, errors.NotFoundError(err, "output directory is not a git repository").
				WithContext("path", path).
				Build()
		}
		return res, gitError(err, "failed to open repository", path)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return res, gitError(err, "failed to open work tree", path)
	}

	status, err := wt.Status()
	if err != nil {
		return res, gitError(err, "failed to read status", path)
	}
	if status.IsClean() {
		slog.Info("Nothing to publish", slog.String("path", path))
		res.Skipped = true
		return res, nil
	}
	res.Changed = len(status)

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return res, gitError(err, "failed to stage changes", path)
	}

	hash, err := wt.Commit(opts.Message, &git.CommitOptions{
		All: true,
		Author: &object.Signature{
			Name:  opts.Author,
			Email: opts.Email,
			When:  opts.Now(),
		},
	})
	if err != nil {
		return res, gitError(err, "failed to commit", path)
	}
	res.Commit = hash.String()

	slog.Info("Published output",
		slog.String("path", path),
		slog.String("commit", res.Commit[:8]),
		logfields.Count(res.Changed))
	return res, nil
}

func gitError(err error, msg, path string) error {
	return errors.IntegrationError(err, msg).
		WithContext("path", path).
		Build()
}
