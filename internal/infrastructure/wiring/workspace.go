package wiring

import (
	"github.com/felixgeelhaar/printhooks/pkg/storage"
)

// Workspace bundles the local persistence of a printhooks directory.
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
