package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/imagevault/internal/model"
	"github.com/sakif/imagevault/internal/repository"
)

// ImageRepo persists image records. Obtain one from DB.Images().
type ImageRepo struct {
	conn *sql.DB
}

// Compile-time check that *ImageRepo implements repository.ImageRepository.
var _ repository.ImageRepository = (*ImageRepo)(nil)

// Create inserts a new image record. ID and CreatedAt are generated here.
// The uploaded file must already be in place at StoragePath — the record
// only points at it.
func (r *ImageRepo) Create(ctx context.Context, image *model.Image) error {
	image.ID = xid.New().String()
	image.CreatedAt = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO images (id, name, owner_id, folder_id, storage_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		image.ID,
		image.Name,
		image.OwnerID,
		nullableString(image.FolderID),
		image.StoragePath,
		image.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating image: %w", err)
	}

	return nil
}

// ListByOwner returns all of one owner's images, oldest first.
func (r *ImageRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Image, error) {
	return r.queryImages(ctx,
		`SELECT id, name, owner_id, folder_id, storage_path, created_at
		 FROM images
		 WHERE owner_id = ?
		 ORDER BY created_at ASC, id ASC`,
		ownerID,
	)
}

// ListByFolder returns the owner's images filed in the given folder.
func (r *ImageRepo) ListByFolder(ctx context.Context, ownerID, folderID string) ([]model.Image, error) {
	return r.queryImages(ctx,
		`SELECT id, name, owner_id, folder_id, storage_path, created_at
		 FROM images
		 WHERE owner_id = ? AND folder_id = ?
		 ORDER BY created_at ASC, id ASC`,
		ownerID, folderID,
	)
}

// Search returns the owner's images whose name contains query as a
// case-insensitive substring. "cat" matches "Vacation_CAT.png".
//
// The query is wrapped in %...% for LIKE; literal %, _ and \ in the user's
// input are escaped so they match themselves instead of acting as
// wildcards. Matching is done on lower(name) vs lower(pattern) — SQLite's
// LIKE is only case-insensitive for ASCII by default, and lowering both
// sides makes the intent explicit.
func (r *ImageRepo) Search(ctx context.Context, ownerID, query string) ([]model.Image, error) {
	pattern := "%" + escapeLike(query) + "%"

	return r.queryImages(ctx,
		`SELECT id, name, owner_id, folder_id, storage_path, created_at
		 FROM images
		 WHERE owner_id = ? AND lower(name) LIKE lower(?) ESCAPE '\'
		 ORDER BY created_at ASC, id ASC`,
		ownerID, pattern,
	)
}

// queryImages runs a SELECT over the images table and scans the rows.
func (r *ImageRepo) queryImages(ctx context.Context, query string, args ...any) ([]model.Image, error) {
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: querying images: %w", err)
	}
	defer rows.Close()

	images := []model.Image{}
	for rows.Next() {
		var (
			img      model.Image
			folderID sql.NullString
		)
		if err := rows.Scan(&img.ID, &img.Name, &img.OwnerID, &folderID, &img.StoragePath, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning image row: %w", err)
		}
		img.FolderID = scanNullString(folderID)
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating images: %w", err)
	}

	return images, nil
}

// escapeLike escapes the LIKE wildcards in a user-supplied substring.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
