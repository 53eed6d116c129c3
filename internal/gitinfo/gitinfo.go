// Package gitinfo stamps builds with the state of the source repository,
// when one is present.
package gitinfo

import (
	"log/slog"

	git "github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/docpolish/internal/logfields"
)

// Info describes the repository state a build ran from. The zero Info
// means no repository was found.
type Info struct {
	Commit string // short commit SHA
	Branch string // branch name, empty on detached HEAD
}

// Found reports whether repository state was captured.
func (i Info) Found() bool {
	return i.Commit != ""
}

// Capture reads HEAD from the repository at dir. Builds are stamped
// opportunistically: a missing repository or unreadable HEAD yields a
// zero Info, never an error.
func Capture(dir string) Info {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		slog.Debug("no git repository for build stamp",
			logfields.Path(dir),
			logfields.Error(err))
		return Info{}
	}

	ref, err := repo.Head()
	if err != nil {
		slog.Debug("git HEAD unreadable",
			logfields.Path(dir),
			logfields.Error(err))
		return Info{}
	}

	info := Info{Commit: shortSHA(ref.Hash().String())}
	if ref.Name().IsBranch() {
		info.Branch = ref.Name().Short()
	}
	return info
}

func shortSHA(sha string) string {
	if len(sha) > 12 {
		return sha[:12]
	}
	return sha
}
