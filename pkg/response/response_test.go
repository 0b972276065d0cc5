package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"doggtalk/pkg/errcode"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(t *testing.T, fn func(c *gin.Context)) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	fn(c)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestSuccess(t *testing.T) {
	status, body := record(t, func(c *gin.Context) {
		Success(c, gin.H{"topic_id": 7})
	})
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["code"])
	assert.Equal(t, "ok", body["error"])
	assert.Equal(t, float64(7), body["data"].(map[string]any)["topic_id"])
}

func TestFail(t *testing.T) {
	t.Run("business error", func(t *testing.T) {
		status, body := record(t, func(c *gin.Context) {
			Fail(c, errcode.New(errcode.TopicNotFound))
		})
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(5001), body["code"])
		assert.Equal(t, "topic not found", body["error"])
		_, hasData := body["data"]
		assert.False(t, hasData)
	})

	t.Run("plain error", func(t *testing.T) {
		_, body := record(t, func(c *gin.Context) {
			Fail(c, errors.New("boom"))
		})
		assert.Equal(t, float64(9999), body["code"])
		assert.Equal(t, "unexpected error: boom", body["error"])
	})

	t.Run("invalid params", func(t *testing.T) {
		_, body := record(t, func(c *gin.Context) {
			InvalidParams(c, errors.New("count must be <= 500"))
		})
		assert.Equal(t, float64(2001), body["code"])
		assert.Equal(t, "invalid params: count must be <= 500", body["error"])
	})
}
