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

// MaxImageNameLength bounds the display name of an uploaded image.
const MaxImageNameLength = 200

// ImageService handles image records. The uploaded bytes themselves are
// written by the storage layer before Create is called — this service only
// deals with the metadata rows.
type ImageService struct {
	images  repository.ImageRepository
	folders repository.FolderRepository
	logger  *slog.Logger
}

// NewImageService creates an ImageService. The folder repository is used
// to verify that a target folder belongs to the uploader.
func NewImageService(
	images repository.ImageRepository,
	folders repository.FolderRepository,
	logger *slog.Logger,
) *ImageService {
	return &ImageService{
		images:  images,
		folders: folders,
		logger:  logger,
	}
}

// Create persists an image record for a file already placed at storagePath.
//
// folderID comes straight from the multipart form. The web client sends
// "null" (the literal string) for unfiled uploads, so anything that isn't
// a well-formed ID is treated as "no folder" rather than rejected — same
// lenience as the original API. A well-formed ID, on the other hand, must
// resolve to a folder owned by the uploader.
func (s *ImageService) Create(ctx context.Context, ownerID, name, folderID, storagePath string) (*model.Image, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "image name is required")
	}
	if len(name) > MaxImageNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("image name must be %d characters or less", MaxImageNameLength))
	}
	if storagePath == "" {
		return nil, apperror.ValidationFailed("image", "no file uploaded")
	}

	var folderRef *string
	if fid := strings.TrimSpace(folderID); fid != "" {
		if _, err := xid.FromString(fid); err == nil {
			if _, err := s.folders.GetByID(ctx, ownerID, fid); err != nil {
				if errors.Is(err, apperror.ErrNotFound) {
					return nil, apperror.NotFound("folder", fid)
				}
				return nil, fmt.Errorf("service/image: looking up folder %s: %w", fid, err)
			}
			folderRef = &fid
		}
	}

	img := &model.Image{
		Name:        name,
		OwnerID:     ownerID,
		FolderID:    folderRef,
		StoragePath: storagePath,
	}
	if err := s.images.Create(ctx, img); err != nil {
		s.logger.Error("failed to create image",
			slog.String("ownerID", ownerID),
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/image: creating image: %w", err)
	}

	s.logger.Info("image created",
		slog.String("id", img.ID),
		slog.String("ownerID", ownerID),
		slog.String("storagePath", img.StoragePath),
	)

	return img, nil
}

// List returns all of the owner's images.
func (s *ImageService) List(ctx context.Context, ownerID string) ([]model.Image, error) {
	images, err := s.images.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error("failed to list images",
			slog.String("ownerID", ownerID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/image: listing images: %w", err)
	}
	return images, nil
}

// Search returns the owner's images whose name contains query,
// case-insensitively. An empty query matches everything, like the
// original's unanchored regex.
func (s *ImageService) Search(ctx context.Context, ownerID, query string) ([]model.Image, error) {
	images, err := s.images.Search(ctx, ownerID, strings.TrimSpace(query))
	if err != nil {
		s.logger.Error("failed to search images",
			slog.String("ownerID", ownerID),
			slog.String("query", query),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/image: searching images: %w", err)
	}
	return images, nil
}
