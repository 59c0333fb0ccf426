package model

import "time"

// Folder is a node in a user's folder hierarchy.
//
// ParentID is nil for root folders. When set, it references another folder
// with the same OwnerID — folders are never shared across owners, so each
// user's folders form an independent forest.
//
// Path is the materialized path of the folder: the parent's path, a "/",
// then this folder's name (or just the name for a root folder). It is
// denormalized at creation time so the UI can display full paths without
// walking the tree. Folders are create-only (no rename/move), so the path
// never goes stale.
type Folder struct {
	ID        string    `json:"id"       db:"id"`
	Name      string    `json:"name"     db:"name"`
	OwnerID   string    `json:"userId"   db:"owner_id"`
	ParentID  *string   `json:"parentId" db:"parent_id"`
	Path      string    `json:"path"     db:"path"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// FolderNode is a folder with its nested children, as returned by the
// forest builder. Children is always non-nil: a leaf folder serializes as
// "children": [] rather than omitting the field, which keeps the client's
// recursive rendering simple.
type FolderNode struct {
	Folder
	Children []*FolderNode `json:"children"`
}
