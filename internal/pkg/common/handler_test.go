package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"doggtalk/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memUploader struct {
	mu    sync.Mutex
	files map[string]string
	fail  bool
}

func (u *memUploader) Upload(_ context.Context, filename string, r io.Reader) (string, error) {
	if u.fail {
		return "", errors.New("oss down")
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.files[filename] = string(body)
	return "https://cdn/" + filename, nil
}

func postFiles(t *testing.T, h *UploadHandler, names ...string) response.Response {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range names {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, _ = fw.Write([]byte("data-" + name))
	}
	require.NoError(t, mw.Close())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/mgr/upload", h.UploadFile)
	req := httptest.NewRequest(http.MethodPost, "/mgr/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestUploadFileKeepsOrder(t *testing.T) {
	u := &memUploader{files: map[string]string{}}
	resp := postFiles(t, NewUploadHandler(u), "a.png", "b.png", "c.png")

	require.Equal(t, 0, resp.Code)
	urls := resp.Data.(map[string]any)["urls"].([]any)
	assert.Equal(t, []any{"https://cdn/a.png", "https://cdn/b.png", "https://cdn/c.png"}, urls)
	assert.Equal(t, "data-b.png", u.files["b.png"])
}

func TestUploadFileErrors(t *testing.T) {
	assert.Equal(t, 2001, postFiles(t, NewUploadHandler(&memUploader{})).Code)
	assert.Equal(t, 9999, postFiles(t, NewUploadHandler(nil), "a.png").Code)
	assert.Equal(t, 9999, postFiles(t, NewUploadHandler(&memUploader{fail: true}), "a.png").Code)
}
