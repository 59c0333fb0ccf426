package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rs/xid"
	"github.com/sakif/imagevault/internal/apperror"
	"github.com/sakif/imagevault/internal/model"
	"github.com/sakif/imagevault/internal/repository"
)

// MaxFolderNameLength bounds folder names; paths are materialized strings
// and unbounded names would grow them without limit.
const MaxFolderNameLength = 100

// FolderService handles folder creation, lookup and the nested forest.
// Every operation takes the authenticated owner's ID — there is no
// unscoped entry point.
type FolderService struct {
	folders repository.FolderRepository
	images  repository.ImageRepository
	logger  *slog.Logger
}

// NewFolderService creates a FolderService. The image repository is needed
// for the folder-contents listing.
func NewFolderService(
	folders repository.FolderRepository,
	images repository.ImageRepository,
	logger *slog.Logger,
) *FolderService {
	return &FolderService{
		folders: folders,
		images:  images,
		logger:  logger,
	}
}

// Create validates and persists a new folder for the owner.
//
// Path invariant: path == parent.path + "/" + name, or just name for a
// root folder. The parent lookup is owner-scoped, so a parentId pointing
// at another owner's folder reads as "parent folder not found" — the
// caller learns nothing about foreign IDs.
//
// The parent read and the folder INSERT are not one transaction; since
// folders are never renamed or moved, the parent's path can't change
// between the two statements, so the materialized path stays consistent.
func (s *FolderService) Create(ctx context.Context, ownerID, name string, parentID *string) (*model.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "folder name is required")
	}
	if len(name) > MaxFolderNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("folder name must be %d characters or less", MaxFolderNameLength))
	}

	path := name
	if parentID != nil {
		pid := strings.TrimSpace(*parentID)
		if _, err := xid.FromString(pid); err != nil {
			return nil, apperror.InvalidID(pid)
		}

		parent, err := s.folders.GetByID(ctx, ownerID, pid)
		if err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return nil, apperror.NotFound("parent folder", pid)
			}
			return nil, fmt.Errorf("service/folder: looking up parent %s: %w", pid, err)
		}

		parentID = &pid
		path = parent.Path + "/" + name
	}

	folder := &model.Folder{
		Name:     name,
		OwnerID:  ownerID,
		ParentID: parentID,
		Path:     path,
	}
	if err := s.folders.Create(ctx, folder); err != nil {
		s.logger.Error("failed to create folder",
			slog.String("ownerID", ownerID),
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/folder: creating folder: %w", err)
	}

	s.logger.Info("folder created",
		slog.String("id", folder.ID),
		slog.String("ownerID", ownerID),
		slog.String("path", folder.Path),
	)

	return folder, nil
}

// List returns the owner's folders as a flat list.
func (s *FolderService) List(ctx context.Context, ownerID string) ([]model.Folder, error) {
	folders, err := s.folders.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list folders",
			slog.String("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/folder: listing folders: %w", err)
	}
	return folders, nil
}

// Get returns a single folder by ID, owner-scoped.
// A malformed ID fails with InvalidID before touching the store.
func (s *FolderService) Get(ctx context.Context, ownerID, id string) (*model.Folder, error) {
	id = strings.TrimSpace(id)
	if _, err := xid.FromString(id); err != nil {
		return nil, apperror.InvalidID(id)
	}

	return s.folders.GetByID(ctx, ownerID, id)
}

// ListImages returns the owner's images filed in the given folder.
// An empty result — including a folder ID that matches nothing — is just
// an empty list, mirroring the original endpoint.
func (s *FolderService) ListImages(ctx context.Context, ownerID, folderID string) ([]model.Image, error) {
	folderID = strings.TrimSpace(folderID)
	if _, err := xid.FromString(folderID); err != nil {
		return nil, apperror.InvalidID(folderID)
	}

	images, err := s.images.ListByFolder(ctx, ownerID, folderID)
	if err != nil {
		s.logger.Error("failed to list folder images",
			slog.String("ownerID", ownerID),
			slog.String("folderID", folderID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/folder: listing folder images: %w", err)
	}
	return images, nil
}
