package gitinfo

import (
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
)

// GitInfoAdapter implements domain.StagedFileLister using go-git.
type GitInfoAdapter struct{}

func New() *GitInfoAdapter {
	return &GitInfoAdapter{}
}

func (g *GitInfoAdapter) IsGitRepo(projectPath string) bool {
	_, err := git.PlainOpen(projectPath)
	return err == nil
}

// StagedFiles returns the paths (relative to the repository root) of all
// files currently staged in the index.
func (g *GitInfoAdapter) StagedFiles(projectPath string) ([]string, error) {
	repo, err := git.PlainOpen(projectPath)
	if err != nil {
		return nil, fmt.Errorf("opening git repo: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("reading worktree status: %w", err)
	}

	var staged []string
	for path, fileStatus := range status {
		switch fileStatus.Staging {
		case git.Added, git.Modified, git.Renamed, git.Copied:
			staged = append(staged, path)
		}
	}
	sort.Strings(staged)
	return staged, nil
}
