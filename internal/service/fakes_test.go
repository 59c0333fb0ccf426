package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/imagevault/internal/apperror"
	"github.com/sakif/imagevault/internal/model"
)

// In-memory fakes for the repository interfaces. Fakes (not a mock
// framework) keep the tests dependency-free and easy to read — what each
// fake does is right here in the file.

type fakeUserRepo struct {
	users   map[string]*model.User // keyed by internal ID
	byEmail map[string]*model.User
	// set to a non-nil error to simulate a database failure
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[string]*model.User),
		byEmail: make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[user.Email]; ok {
		return apperror.ValidationFailed("email", "email already in use")
	}
	user.ID = xid.New().String()
	user.CreatedAt = time.Now()
	copied := *user
	f.users[user.ID] = &copied
	f.byEmail[user.Email] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("user", email)
	}
	copied := *u
	return &copied, nil
}

type fakeFolderRepo struct {
	folders []*model.Folder // insertion order, like ORDER BY created_at
	listErr error
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{}
}

func (f *fakeFolderRepo) Create(ctx context.Context, folder *model.Folder) error {
	folder.ID = xid.New().String()
	folder.CreatedAt = time.Now()
	copied := *folder
	f.folders = append(f.folders, &copied)
	return nil
}

func (f *fakeFolderRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Folder, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []model.Folder{}
	for _, folder := range f.folders {
		if folder.OwnerID == ownerID {
			out = append(out, *folder)
		}
	}
	return out, nil
}

func (f *fakeFolderRepo) GetByID(ctx context.Context, ownerID, id string) (*model.Folder, error) {
	for _, folder := range f.folders {
		if folder.ID == id && folder.OwnerID == ownerID {
			copied := *folder
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("folder", id)
}

type fakeImageRepo struct {
	images []*model.Image
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{}
}

func (f *fakeImageRepo) Create(ctx context.Context, image *model.Image) error {
	image.ID = xid.New().String()
	image.CreatedAt = time.Now()
	copied := *image
	f.images = append(f.images, &copied)
	return nil
}

func (f *fakeImageRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Image, error) {
	out := []model.Image{}
	for _, img := range f.images {
		if img.OwnerID == ownerID {
			out = append(out, *img)
		}
	}
	return out, nil
}

func (f *fakeImageRepo) ListByFolder(ctx context.Context, ownerID, folderID string) ([]model.Image, error) {
	out := []model.Image{}
	for _, img := range f.images {
		if img.OwnerID == ownerID && img.FolderID != nil && *img.FolderID == folderID {
			out = append(out, *img)
		}
	}
	return out, nil
}

func (f *fakeImageRepo) Search(ctx context.Context, ownerID, query string) ([]model.Image, error) {
	out := []model.Image{}
	for _, img := range f.images {
		if img.OwnerID == ownerID && containsFold(img.Name, query) {
			out = append(out, *img)
		}
	}
	return out, nil
}

func containsFold(name, query string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(query))
}
