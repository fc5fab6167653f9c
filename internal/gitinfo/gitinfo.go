package gitinfo

import (
	"time"

	git "github.com/go-git/go-git/v5"

	"github.com/jkirker/Page-Exec-Timer/internal/errors"
)

// Info describes the revision of the repository containing the content tree.
// It feeds the status endpoint and the version command so a running instance
// can always say what it is serving.
type Info struct {
	Commit string    `json:"commit"`
	Branch string    `json:"branch,omitempty"`
	When   time.Time `json:"when,omitempty"`
}

// ShortCommit returns the abbreviated commit hash.
func (i *Info) ShortCommit() string {
	if len(i.Commit) < 7 {
		return i.Commit
	}
	return i.Commit[:7]
}

// Lookup resolves HEAD for the repository containing dir, walking parent
// directories the way git itself does. Directories outside any work tree
// yield a lookup error; callers treat that as "no revision to report".
func Lookup(dir string) (*Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.GitLookupError(err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, errors.GitLookupError(err)
	}

	info := &Info{Commit: head.Hash().String()}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}
	if commit, err := repo.CommitObject(head.Hash()); err == nil {
		info.When = commit.Author.When
	}
	return info, nil
}
