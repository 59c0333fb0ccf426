// Package repository defines the persistence interfaces the service layer
// programs against. The sqlite subpackage provides the concrete
// implementation; tests substitute in-memory fakes.
//
// OWNER SCOPING:
// Every folder/image method takes the owner's user ID and restricts the
// query to records with that owner. There is deliberately no unscoped
// lookup — cross-owner access is impossible to express through these
// interfaces, which is what keeps per-user isolation a structural property
// rather than a per-call-site discipline.
package repository

import (
	"context"

	"github.com/sakif/imagevault/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type FolderRepository interface {
	Create(ctx context.Context, folder *model.Folder) error
	// ListByOwner returns the owner's folders flat, ordered by creation time.
	ListByOwner(ctx context.Context, ownerID string) ([]model.Folder, error)
	// GetByID is owner-scoped: a folder belonging to another owner reads as
	// not found.
	GetByID(ctx context.Context, ownerID, id string) (*model.Folder, error)
}

type ImageRepository interface {
	Create(ctx context.Context, image *model.Image) error
	ListByOwner(ctx context.Context, ownerID string) ([]model.Image, error)
	ListByFolder(ctx context.Context, ownerID, folderID string) ([]model.Image, error)
	// Search returns the owner's images whose name contains query as a
	// case-insensitive substring.
	Search(ctx context.Context, ownerID, query string) ([]model.Image, error)
}
