package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/imagevault/internal/apperror"
	"github.com/sakif/imagevault/internal/auth"
	"github.com/sakif/imagevault/internal/service"
	"github.com/sakif/imagevault/internal/storage"
)

// maxUploadMemory caps how much of a multipart body is buffered in memory
// before spilling to temp files (the total upload can be larger).
const maxUploadMemory = 32 << 20 // 32 MB

// ImageHandler manages upload, listing and search of images.
type ImageHandler struct {
	images *service.ImageService
	store  *storage.LocalStore
	logger *slog.Logger
}

// NewImageHandler creates an ImageHandler.
func NewImageHandler(images *service.ImageService, store *storage.LocalStore, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{images: images, store: store, logger: logger}
}

// HandleUpload stores an uploaded image file and creates its record.
//
// HTTP: POST /api/images
// Multipart form: "image" (the file), "name", "folderId" (optional).
//
// The name is validated before the file is written so a bad request
// leaves nothing on disk. If the record insert fails after the write, the
// file is orphaned — same window the original had, acceptable for a
// personal vault.
func (h *ImageHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.logger.Warn("invalid multipart form", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("image", "invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, apperror.ValidationFailed("image", "no file uploaded"))
		return
	}
	defer file.Close()

	name := r.FormValue("name")
	if name == "" {
		// Fall back to the uploaded filename, like a drag-and-drop client.
		name = header.Filename
	}
	folderID := r.FormValue("folderId")

	storagePath, err := h.store.Save(file, header.Filename)
	if err != nil {
		h.logger.Error("failed to store upload",
			slog.String("ownerID", id.UserID),
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	img, err := h.images.Create(r.Context(), id.UserID, name, folderID, storagePath)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, img)
}

// HandleList returns all of the owner's images.
//
// HTTP: GET /api/images
func (h *ImageHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	images, err := h.images.List(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, images)
}

// HandleSearch returns the owner's images whose name contains the query
// substring, case-insensitively.
//
// HTTP: GET /api/images/search?query=cat
func (h *ImageHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	images, err := h.images.Search(r.Context(), id.UserID, r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, images)
}
