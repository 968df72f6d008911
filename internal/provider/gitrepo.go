package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitRepo fills the version-control capability with go-git: repository
// init plus an initial commit of everything generated, no git binary
// required.
type GitRepo struct {
	defaultBranch string
	authorName    string
	authorEmail   string
	now           func() time.Time
}

// NewGitRepo constructs the provider from capability options.
func NewGitRepo(options map[string]string) (Provider, error) {
	g := &GitRepo{
		defaultBranch: "main",
		authorName:    "pkgfoundry",
		authorEmail:   "pkgfoundry@localhost",
		now:           time.Now,
	}
	if v := options["default_branch"]; v != "" {
		g.defaultBranch = v
	}
	if v := options["author_name"]; v != "" {
		g.authorName = v
	}
	if v := options["author_email"]; v != "" {
		g.authorEmail = v
	}
	return g, nil
}

func (g *GitRepo) Name() string           { return "go-git" }
func (g *GitRepo) Capability() Capability { return CapabilityVersionControl }

// ValidateConnection always succeeds: go-git is in-process and needs no
// external tooling.
func (g *GitRepo) ValidateConnection(context.Context) error { return nil }

// Execute initializes a repository at req.Dir and commits the tree.
func (g *GitRepo) Execute(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	branch := req.Option("default_branch", g.defaultBranch)
	repo, err := git.PlainInitWithOptions(req.Dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(branch),
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("init repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return Result{}, fmt.Errorf("open worktree: %w", err)
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return Result{}, fmt.Errorf("stage files: %w", err)
	}

	message := req.Option("commit_message", "Initial project structure")
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  req.Option("author_name", g.authorName),
			Email: req.Option("author_email", g.authorEmail),
			When:  g.now(),
		},
	})
	if err != nil {
		return Result{}, fmt.Errorf("initial commit: %w", err)
	}

	return Result{
		Summary: "repository initialized",
		Details: map[string]string{
			"branch": branch,
			"commit": hash.String(),
		},
	}, nil
}
