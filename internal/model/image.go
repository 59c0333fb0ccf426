package model

import "time"

// Image is a record of an uploaded image file.
//
// FolderID is nil for unfiled images. StoragePath is where the uploaded
// bytes live relative to the server root (e.g. "uploads/1717430000123.png");
// the file itself is written by the upload storage before the record is
// created, and the same path is served back at /uploads/.
//
// Image records are create-only: no rename, no move between folders, no
// delete.
type Image struct {
	ID          string    `json:"id"       db:"id"`
	Name        string    `json:"name"     db:"name"`
	OwnerID     string    `json:"userId"   db:"owner_id"`
	FolderID    *string   `json:"folderId" db:"folder_id"`
	StoragePath string    `json:"filePath" db:"storage_path"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
