package infra

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"go.uber.org/zap"

	"github.com/rathamcloud/rcsetup/internal/domain"
)

// GitFetcher implements domain.SourceFetcher with go-git. The bot tree
// is cloned on first install and pulled on re-runs, so repeated installs
// converge instead of failing on an existing directory.
type GitFetcher struct {
	runner domain.CommandRunner
	logger *zap.Logger
}

// NewGitFetcher creates the source fetcher.
func NewGitFetcher(runner domain.CommandRunner, logger *zap.Logger) *GitFetcher {
	return &GitFetcher{runner: runner, logger: logger}
}

// Fetch clones repoURL into dir, or updates an existing clone. An
// already-up-to-date tree is success.
func (f *GitFetcher) Fetch(ctx context.Context, repoURL, dir string) error {
	if repo, err := git.PlainOpen(dir); err == nil {
		return f.update(ctx, repo, dir)
	}

	f.logger.Info("cloning bot source", zap.String("url", repoURL), zap.String("dir", dir))
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:      repoURL,
		Progress: os.Stdout,
		Depth:    1,
	})
	if errors.Is(err, git.ErrRepositoryAlreadyExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("clone %s: %w", repoURL, err)
	}
	return nil
}

func (f *GitFetcher) update(ctx context.Context, repo *git.Repository, dir string) error {
	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("open worktree %s: %w", dir, err)
	}

	f.logger.Info("updating bot source", zap.String("dir", dir))
	err = worktree.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("pull %s: %w", dir, err)
	}
	return nil
}

// InstallRequirements installs the bot's Python dependencies from the
// fetched tree. A tree without a requirements file needs nothing.
func (f *GitFetcher) InstallRequirements(dir string) error {
	reqs := filepath.Join(dir, "requirements.txt")
	if _, err := os.Stat(reqs); err != nil {
		f.logger.Info("no requirements file in bot source", zap.String("dir", dir))
		return nil
	}
	if err := f.runner.Run("pip3", "install", "-r", reqs); err != nil {
		return fmt.Errorf("pip3 install -r %s: %w", reqs, err)
	}
	return nil
}

// Ensure GitFetcher implements domain.SourceFetcher.
var _ domain.SourceFetcher = (*GitFetcher)(nil)
