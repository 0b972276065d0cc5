package uploader

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"doggtalk/internal/pkg/config"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// Uploader 上传应用图标、头像等静态资源
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// ObjectPutter 对象存储写入接口，*oss.Bucket 实现该接口
type ObjectPutter interface {
	PutObject(objectKey string, reader io.Reader, options ...oss.Option) error
}

type AliyunOSSUploader struct {
	bucket  ObjectPutter
	baseURL string
	now     func() time.Time
}

func NewAliyunOSSUploader(cfg config.OSSConfig) (*AliyunOSSUploader, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, err
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, err
	}

	return newUploader(bucket, cfg), nil
}

func newUploader(bucket ObjectPutter, cfg config.OSSConfig) *AliyunOSSUploader {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
	return &AliyunOSSUploader{
		bucket:  bucket,
		baseURL: fmt.Sprintf("https://%s.%s", cfg.BucketName, endpoint),
		now:     time.Now,
	}
}

// Upload 以 YYYYMMDD/uuid.ext 为对象名上传，返回公网地址
// bucket 需为公共读
func (u *AliyunOSSUploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	key := fmt.Sprintf("%s/%s%s", u.now().Format("20060102"), uuid.New().String(), ext)

	if err := u.bucket.PutObject(key, r, oss.WithContext(ctx)); err != nil {
		return "", err
	}
	return u.baseURL + "/" + key, nil
}
