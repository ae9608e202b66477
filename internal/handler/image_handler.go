package handler

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"knowledge-base/internal/service"

	"github.com/gin-gonic/gin"
)

type ImageHandler struct {
	svc *service.ImageService
}

func NewImageHandler(svc *service.ImageService) *ImageHandler {
	return &ImageHandler{svc: svc}
}

// Upload 给条目上传图片
// POST /api/v1/knowledge/:id/upload-image
// Form-Data: image=BINARY
func (h *ImageHandler) Upload(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		renderError(c, service.ErrNotFound)
		return
	}

	// 文件缺失也先交给 service，父条目存在性检查在先
	fileHeader, _ := c.FormFile("image")

	resp, err := h.svc.Upload(c.Request.Context(), id, fileHeader)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Delete 删除条目下的图片，成功无响应体
// DELETE /api/v1/knowledge/:id/images/:image_id
func (h *ImageHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		renderError(c, service.ErrNotFound)
		return
	}
	imageID, ok := parseID(c, "image_id")
	if !ok {
		renderError(c, service.ErrImageNotFound)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, imageID); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetMedia 图片二进制透传 (bucket 不公开时 image_url 指向这里)
// GET /api/v1/media/*object
func (h *ImageHandler) GetMedia(c *gin.Context) {
	objectKey := strings.TrimPrefix(c.Param("object"), "/")

	obj, size, err := h.svc.GetObject(c.Request.Context(), objectKey)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "File not found."})
		return
	}
	defer obj.Close()

	contentType := mime.TypeByExtension(filepath.Ext(objectKey))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Disposition", "inline; filename="+filepath.Base(objectKey))
	c.Header("Content-Type", contentType)
	c.Header("Content-Length", fmt.Sprintf("%d", size))

	if _, err := io.Copy(c.Writer, obj); err != nil {
		fmt.Printf("Stream file error: %v\n", err)
	}
}
