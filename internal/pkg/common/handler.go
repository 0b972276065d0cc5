package handler

import (
	"context"
	"mime/multipart"

	"doggtalk/internal/pkg/uploader"
	"doggtalk/pkg/errcode"
	"doggtalk/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sourcegraph/conc/pool"
)

const maxUploadFiles = 9

type UploadHandler struct {
	uploader uploader.Uploader
}

func NewUploadHandler(u uploader.Uploader) *UploadHandler {
	return &UploadHandler{uploader: u}
}

// UploadFile 上传文件 (支持批量)
// @Summary 上传文件到 OSS (支持批量)
// @Tags Common
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Files"
// @Success 200 {object} response.Response{data=[]string} "URLs"
// @Router /mgr/upload [post]
func (h *UploadHandler) UploadFile(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		response.InvalidParams(c, err)
		return
	}

	files := form.File["files"]
	if len(files) == 0 || len(files) > maxUploadFiles {
		response.Fail(c, errcode.WithDetail(errcode.InvalidParams, "files must contain 1 to 9 entries"))
		return
	}

	if h.uploader == nil {
		response.Fail(c, errcode.WithDetail(errcode.Unexpected, "uploader not configured"))
		return
	}

	// 按索引写回，保证返回顺序与上传顺序一致
	urls := make([]string, len(files))
	p := pool.New().WithErrors().WithContext(c.Request.Context()).WithMaxGoroutines(5).WithCancelOnError()
	for i, file := range files {
		p.Go(func(ctx context.Context) error {
			url, err := h.upload(ctx, file)
			if err != nil {
				return err
			}
			urls[i] = url
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		response.Fail(c, errcode.Wrap(errcode.Unexpected, err))
		return
	}
	response.Success(c, gin.H{"urls": urls})
}

func (h *UploadHandler) upload(ctx context.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return h.uploader.Upload(ctx, file.Filename, src)
}
