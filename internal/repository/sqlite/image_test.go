package sqlite

import (
	"context"
	"testing"

	"github.com/sakif/imagevault/internal/model"
)

func createTestImage(t *testing.T, db *DB, ownerID, name string, folderID *string) *model.Image {
	t.Helper()
	img := &model.Image{
		Name:        name,
		OwnerID:     ownerID,
		FolderID:    folderID,
		StoragePath: "uploads/" + name,
	}
	if err := db.Images().Create(context.Background(), img); err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}
	return img
}

func TestImageCreate(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")

	img := &model.Image{
		Name:        "sunset.png",
		OwnerID:     owner.ID,
		StoragePath: "uploads/1717430000123.png",
	}
	if err := db.Images().Create(context.Background(), img); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if img.ID == "" {
		t.Error("Create() did not set image.ID")
	}
	if img.CreatedAt.IsZero() {
		t.Error("Create() did not set image.CreatedAt")
	}
}

func TestImageListByOwner_ScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	createTestImage(t, db, alice.ID, "a1.png", nil)
	createTestImage(t, db, alice.ID, "a2.png", nil)
	createTestImage(t, db, bob.ID, "b1.png", nil)

	images, err := db.Images().ListByOwner(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListByOwner() error = %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("ListByOwner(alice) returned %d images, want 2", len(images))
	}
	for _, img := range images {
		if img.OwnerID != alice.ID {
			t.Errorf("image %s has owner %s, want %s", img.ID, img.OwnerID, alice.ID)
		}
	}
}

func TestImageListByFolder(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")
	folder := createTestFolder(t, db, owner.ID, "pets", nil)

	filed := createTestImage(t, db, owner.ID, "dog.png", &folder.ID)
	createTestImage(t, db, owner.ID, "unfiled.png", nil)

	images, err := db.Images().ListByFolder(context.Background(), owner.ID, folder.ID)
	if err != nil {
		t.Fatalf("ListByFolder() error = %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("ListByFolder() returned %d images, want 1", len(images))
	}
	if images[0].ID != filed.ID {
		t.Errorf("ListByFolder() returned image %s, want %s", images[0].ID, filed.ID)
	}
}

func TestImageSearch_CaseInsensitiveSubstring(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")

	match := createTestImage(t, db, owner.ID, "Vacation_CAT.png", nil)
	createTestImage(t, db, owner.ID, "dog.png", nil)

	images, err := db.Images().Search(context.Background(), owner.ID, "cat")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("Search(%q) returned %d images, want 1", "cat", len(images))
	}
	if images[0].ID != match.ID {
		t.Errorf("Search() returned image %s, want %s", images[0].ID, match.ID)
	}
}

func TestImageSearch_ScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	createTestImage(t, db, alice.ID, "cat-alice.png", nil)
	createTestImage(t, db, bob.ID, "cat-bob.png", nil)

	images, err := db.Images().Search(context.Background(), alice.ID, "cat")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("Search() returned %d images, want 1 (owner scoped)", len(images))
	}
	if images[0].OwnerID != alice.ID {
		t.Errorf("Search() leaked another owner's image")
	}
}

func TestImageSearch_WildcardsAreLiteral(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")

	createTestImage(t, db, owner.ID, "100%_done.png", nil)
	createTestImage(t, db, owner.ID, "plain.png", nil)

	// A literal % in the query must not act as a LIKE wildcard.
	images, err := db.Images().Search(context.Background(), owner.ID, "100%")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("Search(%q) returned %d images, want 1", "100%", len(images))
	}
}

func TestImageSearch_EmptyQueryReturnsAll(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "owner@example.com")

	createTestImage(t, db, owner.ID, "one.png", nil)
	createTestImage(t, db, owner.ID, "two.png", nil)

	images, err := db.Images().Search(context.Background(), owner.ID, "")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(images) != 2 {
		t.Errorf("Search(\"\") returned %d images, want 2", len(images))
	}
}
