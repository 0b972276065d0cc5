package uploader

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"doggtalk/internal/pkg/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPutter struct {
	mock.Mock
}

func (m *mockPutter) PutObject(objectKey string, reader io.Reader, options ...oss.Option) error {
	body, _ := io.ReadAll(reader)
	args := m.Called(objectKey, string(body))
	return args.Error(0)
}

func TestUpload(t *testing.T) {
	putter := new(mockPutter)
	putter.On("PutObject", mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "20260102/") && strings.HasSuffix(key, ".png")
	}), "icon-bytes").Return(nil)

	u := newUploader(putter, config.OSSConfig{Endpoint: "https://oss-cn-hangzhou.aliyuncs.com", BucketName: "dg"})
	u.now = func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) }

	url, err := u.Upload(context.Background(), "Icon.PNG", strings.NewReader("icon-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://dg.oss-cn-hangzhou.aliyuncs.com/20260102/"))
	putter.AssertExpectations(t)
}
