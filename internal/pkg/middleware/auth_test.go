package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"doggtalk/pkg/response"
	"doggtalk/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTokens = utils.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	whoami := func(c *gin.Context) {
		appID, userID, ok := SDKIdentity(c)
		response.Success(c, gin.H{"app_id": appID, "user_id": userID, "ok": ok})
	}
	r.GET("/sdk/required", SDKAuth(testTokens), whoami)
	r.GET("/sdk/optional", SDKOptionalAuth(testTokens), whoami)
	r.GET("/mgr/ping", MgrAuth(testTokens), func(c *gin.Context) {
		response.Success(c, gin.H{"manager_id": ManagerID(c)})
	})
	return r
}

func do(t *testing.T, r http.Handler, path, token string) response.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSDKAuth(t *testing.T) {
	r := newAuthRouter()
	sdkToken, _, err := testTokens.GenerateToken(utils.TokenSDK, utils.SDKPayload(2, 9))
	require.NoError(t, err)
	mgrToken, _, err := testTokens.GenerateToken(utils.TokenMgr, "1")
	require.NoError(t, err)

	resp := do(t, r, "/sdk/required", "")
	assert.Equal(t, 2003, resp.Code)

	resp = do(t, r, "/sdk/required", mgrToken)
	assert.Equal(t, 2003, resp.Code)

	resp = do(t, r, "/sdk/required", sdkToken)
	assert.Equal(t, 0, resp.Code)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(2), data["app_id"])
	assert.Equal(t, float64(9), data["user_id"])
}

func TestSDKOptionalAuth(t *testing.T) {
	r := newAuthRouter()

	resp := do(t, r, "/sdk/optional", "")
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, false, resp.Data.(map[string]any)["ok"])

	resp = do(t, r, "/sdk/optional", "garbage")
	assert.Equal(t, 2003, resp.Code)
}

func TestMgrAuth(t *testing.T) {
	r := newAuthRouter()
	sdkToken, _, err := testTokens.GenerateToken(utils.TokenSDK, utils.SDKPayload(2, 9))
	require.NoError(t, err)
	mgrToken, _, err := testTokens.GenerateToken(utils.TokenMgr, "5")
	require.NoError(t, err)

	assert.Equal(t, 2003, do(t, r, "/mgr/ping", sdkToken).Code)

	resp := do(t, r, "/mgr/ping", mgrToken)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, float64(5), resp.Data.(map[string]any)["manager_id"])
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(NewIPRateLimiter(1, 1)))
	r.GET("/x", func(c *gin.Context) { response.Success(c, nil) })

	assert.Equal(t, 0, do(t, r, "/x", "").Code)
	assert.Equal(t, 9999, do(t, r, "/x", "").Code)
}

func TestIPRateLimiterCleanup(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	l.GetLimiter("1.1.1.1")
	assert.Equal(t, 0, l.Cleanup(time.Minute))
	assert.Equal(t, 1, l.Cleanup(0))
}

func TestRecoveryMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TraceMiddleware(), RecoveryMiddleware())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	resp := do(t, r, "/boom", "")
	assert.Equal(t, 9999, resp.Code)
	assert.Equal(t, "unexpected error: boom", resp.Error)
}

func TestTimeoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(TimeoutMiddleware(time.Second), SecurityHeadersMiddleware())
	r.GET("/deadline", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		response.Success(c, gin.H{"ok": ok, "left": time.Until(deadline) > 0})
	})

	req := httptest.NewRequest(http.MethodGet, "/deadline", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	var resp struct {
		Data struct {
			OK   bool `json:"ok"`
			Left bool `json:"left"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.OK)
	assert.True(t, resp.Data.Left)
}
