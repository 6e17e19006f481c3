package wiring

import (
	"github.com/felixgeelhaar/sqlscore/pkg/storage"
)

// Workspace bundles the local state under the sqlscore home.
type Workspace struct {
	Root string
	Repo *storage.FilesystemRepository
}

func NewWorkspace(root string) *Workspace {
	return &Workspace{
		Root: root,
		Repo: storage.NewFilesystemRepository(root),
	}
}
