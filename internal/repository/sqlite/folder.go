package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/imagevault/internal/apperror"
	"github.com/sakif/imagevault/internal/model"
	"github.com/sakif/imagevault/internal/repository"
)

// FolderRepo persists folders. Obtain one from DB.Folders().
type FolderRepo struct {
	conn *sql.DB
}

// Compile-time check that *FolderRepo implements repository.FolderRepository.
var _ repository.FolderRepository = (*FolderRepo)(nil)

// Create inserts a new folder. ID and CreatedAt are generated here; the
// caller supplies Name, OwnerID, ParentID and the computed Path.
func (r *FolderRepo) Create(ctx context.Context, folder *model.Folder) error {
	folder.ID = xid.New().String()
	folder.CreatedAt = time.Now()

	_, err := r.conn.ExecContext(ctx,
		`INSERT INTO folders (id, name, owner_id, parent_id, path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		folder.ID,
		folder.Name,
		folder.OwnerID,
		nullableString(folder.ParentID),
		folder.Path,
		folder.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating folder: %w", err)
	}

	return nil
}

// ListByOwner returns all of one owner's folders as a flat list, oldest
// first. The creation-time ordering carries through to the forest builder,
// so siblings always render in the order they were created.
func (r *FolderRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Folder, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, name, owner_id, parent_id, path, created_at
		 FROM folders
		 WHERE owner_id = ?
		 ORDER BY created_at ASC, id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing folders: %w", err)
	}
	defer rows.Close()

	folders := []model.Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning folder row: %w", err)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating folders: %w", err)
	}

	return folders, nil
}

// GetByID retrieves a single folder, scoped to its owner. A folder that
// exists but belongs to someone else reads as not found — the response
// doesn't reveal whether the ID exists at all.
func (r *FolderRepo) GetByID(ctx context.Context, ownerID, id string) (*model.Folder, error) {
	var (
		f        model.Folder
		parentID sql.NullString
	)

	err := r.conn.QueryRowContext(ctx,
		`SELECT id, name, owner_id, parent_id, path, created_at
		 FROM folders
		 WHERE id = ? AND owner_id = ?`,
		id, ownerID,
	).Scan(&f.ID, &f.Name, &f.OwnerID, &parentID, &f.Path, &f.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("folder", id)
		}
		return nil, fmt.Errorf("sqlite: getting folder %s: %w", id, err)
	}

	f.ParentID = scanNullString(parentID)
	return &f, nil
}

// scanFolder reads one folder row from a multi-row result set.
func scanFolder(rows *sql.Rows) (model.Folder, error) {
	var (
		f        model.Folder
		parentID sql.NullString
	)
	if err := rows.Scan(&f.ID, &f.Name, &f.OwnerID, &parentID, &f.Path, &f.CreatedAt); err != nil {
		return model.Folder{}, err
	}
	f.ParentID = scanNullString(parentID)
	return f, nil
}
