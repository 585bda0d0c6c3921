// Package git parses branch listings and builds the git commands twig issues.
package git

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"github.com/henri123lemoine/twig/internal/debug"
)

// Repo holds repository information.
type Repo struct {
	// Root is the worktree root; every command runs here.
	Root string

	// Head is the short name of HEAD ("main"), or "" when detached or unknown.
	Head string
}

// Name returns the repository directory name.
func (r *Repo) Name() string {
	return filepath.Base(r.Root)
}

// DetectRepo finds the repository containing dir.
func DetectRepo(ctx context.Context, runner *Runner, dir string) (*Repo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	repo, err := openRepo(abs)
	if err == nil {
		return repo, nil
	}
	debug.Log("go-git could not open %s: %v; falling back to git rev-parse", abs, err)

	// go-git does not understand every repository layout git does
	// (reftable, some linked worktrees), so ask git itself.
	out, gitErr := runner.Output(ctx, abs, Command{Args: []string{"rev-parse", "--show-toplevel"}})
	if gitErr != nil {
		return nil, fmt.Errorf("not a git repository: %w", gitErr)
	}
	root := strings.TrimSpace(out)
	head, _ := runner.Output(ctx, root, Command{Args: []string{"rev-parse", "--abbrev-ref", "HEAD"}})
	head = strings.TrimSpace(head)
	if head == "HEAD" {
		head = ""
	}
	return &Repo{Root: root, Head: head}, nil
}

func openRepo(dir string) (*Repo, error) {
	r, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, err
	}
	wt, err := r.Worktree()
	if err != nil {
		return nil, err
	}

	repo := &Repo{Root: wt.Filesystem.Root()}
	if ref, err := r.Head(); err == nil && ref.Name().IsBranch() {
		repo.Head = ref.Name().Short()
	}
	return repo, nil
}
