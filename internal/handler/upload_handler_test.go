package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func doUpload(t *testing.T, router http.Handler, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestUpload(t *testing.T) {
	router, db := setupRouter(t)
	user := createTestUser(t, db, "uploader", "user")
	token := tokenFor(t, user)

	w := doUpload(t, router, token, "avatar.png", []byte("not-really-a-png"))
	assertStatus(t, w, http.StatusOK)

	var resp struct {
		URL string `json:"url"`
	}
	decodeBody(t, w, &resp)
	if !strings.HasPrefix(resp.URL, "/uploads/") || !strings.HasSuffix(resp.URL, ".png") {
		t.Errorf("url = %q, want /uploads/<uuid>.png", resp.URL)
	}
}

func TestUploadRejectsOversizedImage(t *testing.T) {
	router, db := setupRouter(t)
	user := createTestUser(t, db, "uploader", "user")

	big := bytes.Repeat([]byte("a"), maxUploadSize+1)
	w := doUpload(t, router, tokenFor(t, user), "huge.jpg", big)
	assertStatus(t, w, http.StatusBadRequest)
}

func TestUploadRejectsNonImage(t *testing.T) {
	router, db := setupRouter(t)
	user := createTestUser(t, db, "uploader", "user")

	w := doUpload(t, router, tokenFor(t, user), "malware.exe", []byte("nope"))
	assertStatus(t, w, http.StatusBadRequest)
}

func TestUploadRequiresAuth(t *testing.T) {
	router, _ := setupRouter(t)

	w := doUpload(t, router, "", "avatar.png", []byte("x"))
	assertStatus(t, w, http.StatusUnauthorized)
}
