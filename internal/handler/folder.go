package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/imagevault/internal/apperror"
	"github.com/sakif/imagevault/internal/auth"
	"github.com/sakif/imagevault/internal/service"
)

// FolderHandler manages the folder endpoints. All routes sit behind
// RequireAuth, so every method starts by pulling the identity from the
// context and passes the owner ID down — the handler itself never decides
// what the user may see.
type FolderHandler struct {
	folders *service.FolderService
	logger  *slog.Logger
}

// NewFolderHandler creates a FolderHandler.
func NewFolderHandler(folders *service.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{folders: folders, logger: logger}
}

// HandleCreate creates a folder.
//
// HTTP: POST /api/folders
// Body: {"name": "...", "parentId": "..."} — parentId optional.
// 201 with the new folder, 404 if the parent doesn't exist (or belongs to
// someone else), 400 on a malformed parent ID or empty name.
func (h *FolderHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	var req createFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid folder JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation_error", Message: "invalid JSON body"})
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, err)
		return
	}

	folder, err := h.folders.Create(r.Context(), id.UserID, req.Name, req.ParentID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, folder)
}

// HandleList returns the owner's folders flat.
//
// HTTP: GET /api/folders
func (h *FolderHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	folders, err := h.folders.List(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, folders)
}

// HandleNested returns the owner's folders as a forest of nested nodes.
//
// HTTP: GET /api/folders/nested
func (h *FolderHandler) HandleNested(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	forest, err := h.folders.BuildForest(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, forest)
}

// HandleGetByID returns a single folder.
//
// HTTP: GET /api/folders/{id}
// 400 on a malformed ID, 404 when it doesn't exist for this owner.
func (h *FolderHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	folder, err := h.folders.Get(r.Context(), id.UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, folder)
}

// HandleListImages returns the images filed in a folder.
//
// HTTP: GET /api/folders/{id}/images
func (h *FolderHandler) HandleListImages(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthenticated("valid authentication required"))
		return
	}

	images, err := h.folders.ListImages(r.Context(), id.UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, images)
}
