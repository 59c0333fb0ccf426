package handler_test

// Shared test harness for the handler package. Handlers are exercised with
// real services backed by an in-memory SQLite database, so these tests
// cover the full request path minus the router: auth gate → handler →
// service → repository.

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/sakif/imagevault/internal/auth"
	"github.com/sakif/imagevault/internal/handler"
	"github.com/sakif/imagevault/internal/repository/sqlite"
	"github.com/sakif/imagevault/internal/service"
	"github.com/sakif/imagevault/internal/storage"
)

type env struct {
	db      *sqlite.DB
	tokens  *auth.TokenService
	auth    *handler.AuthHandler
	folders *handler.FolderHandler
	images  *handler.ImageHandler
	gate    func(http.Handler) http.Handler
}

func newEnv(t *testing.T) *env {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService("handler-test-secret-chars", 0)
	if err != nil {
		t.Fatalf("creating token service: %v", err)
	}

	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating upload store: %v", err)
	}

	passwords := auth.NewPasswordServiceForTest(4)
	authService := service.NewAuthService(db.Users(), tokens, passwords, logger)
	folderService := service.NewFolderService(db.Folders(), db.Images(), logger)
	imageService := service.NewImageService(db.Images(), db.Folders(), logger)

	return &env{
		db:      db,
		tokens:  tokens,
		auth:    handler.NewAuthHandler(authService, tokens, logger),
		folders: handler.NewFolderHandler(folderService, logger),
		images:  handler.NewImageHandler(imageService, store, logger),
		gate:    auth.RequireAuth(tokens, db.Users()),
	}
}

// postJSON invokes a public (ungated) handler with a JSON body.
func postJSON(h http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

// do runs a request through the auth gate into the handler. An empty token
// means the request carries no credential.
func (e *env) do(h http.HandlerFunc, req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.gate(h).ServeHTTP(rr, req)
	return rr
}

// authPayload mirrors the signup/login response body.
type authPayload struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// signup registers an account and returns its payload, failing the test on
// any non-201 outcome.
func (e *env) signup(t *testing.T, email, password string) authPayload {
	t.Helper()

	rr := postJSON(e.auth.HandleSignup, "/api/auth/signup",
		`{"email":"`+email+`","password":"`+password+`"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("signup for %s: status = %d, body = %s", email, rr.Code, rr.Body.String())
	}

	var payload authPayload
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decoding signup response: %v", err)
	}
	return payload
}

// createFolder creates a folder via the handler and returns its ID.
func (e *env) createFolder(t *testing.T, token, name string, parentID *string) string {
	t.Helper()

	body := map[string]any{"name": name}
	if parentID != nil {
		body["parentId"] = *parentID
	}
	raw, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/api/folders", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rr := e.do(e.folders.HandleCreate, req, token)
	if rr.Code != http.StatusCreated {
		t.Fatalf("creating folder %q: status = %d, body = %s", name, rr.Code, rr.Body.String())
	}

	var folder struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&folder); err != nil {
		t.Fatalf("decoding folder response: %v", err)
	}
	return folder.ID
}

// multipartBody builds a multipart form with the given fields and a single
// file part named "image". Returns the body and its Content-Type.
func multipartBody(t *testing.T, fields map[string]string, filename, contents string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("writing form field %s: %v", k, err)
		}
	}
	if filename != "" {
		fw, err := w.CreateFormFile("image", filename)
		if err != nil {
			t.Fatalf("creating file part: %v", err)
		}
		if _, err := fw.Write([]byte(contents)); err != nil {
			t.Fatalf("writing file part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

// uploadImage uploads a file via the handler, failing the test on any
// non-201 outcome, and returns the decoded record.
func (e *env) uploadImage(t *testing.T, token string, fields map[string]string, filename string) imagePayload {
	t.Helper()

	body, contentType := multipartBody(t, fields, filename, "fake image bytes")
	req := httptest.NewRequest(http.MethodPost, "/api/images", body)
	req.Header.Set("Content-Type", contentType)
	rr := e.do(e.images.HandleUpload, req, token)
	if rr.Code != http.StatusCreated {
		t.Fatalf("uploading %q: status = %d, body = %s", filename, rr.Code, rr.Body.String())
	}

	var img imagePayload
	if err := json.NewDecoder(rr.Body).Decode(&img); err != nil {
		t.Fatalf("decoding upload response: %v", err)
	}
	return img
}

// imagePayload mirrors the image record JSON.
type imagePayload struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	FolderID *string `json:"folderId"`
	FilePath string  `json:"filePath"`
}
