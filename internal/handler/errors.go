package handler

import (
	"errors"
	"net/http"

	"knowledge-base/internal/service"

	"github.com/gin-gonic/gin"
)

// renderError service 错误 → HTTP 响应
// 校验错误 400 (字段级或 detail)，找不到 404，其余兜底 500
func renderError(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		if ve.Field != "" {
			c.JSON(http.StatusBadRequest, gin.H{ve.Field: []string{ve.Message}})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"detail": ve.Message})
		}
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Knowledge entry not found."})
	case errors.Is(err, service.ErrImageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Image not found."})
	case errors.Is(err, service.ErrNotDeleted):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Knowledge entry is not deleted."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
	}
}
