package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"knowledge-base/internal/dto"
	"knowledge-base/internal/repository"
	"knowledge-base/internal/service"

	"github.com/gin-gonic/gin"
)

type KnowledgeHandler struct {
	svc *service.KnowledgeService
}

func NewKnowledgeHandler(svc *service.KnowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{svc: svc}
}

// parseID 路径参数转 uint，非数字按不存在处理
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// bindJSON 绑定请求体
// quiz 传了非数组 (单个字符串/对象) 时要报出针对性的校验错误，而不是笼统的 400
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && strings.HasPrefix(typeErr.Field, "quiz") {
			c.JSON(http.StatusBadRequest, gin.H{"quiz": []string{"Quiz must be a list."}})
			return false
		}
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Malformed request body."})
		return false
	}
	return true
}

// List 列表/过滤/分页
// GET /api/v1/knowledge
func (h *KnowledgeHandler) List(c *gin.Context) {
	var req dto.ListKnowledgeReq
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid query parameters."})
		return
	}

	results, total, err := h.svc.List(c.Request.Context(), req)
	if err != nil {
		renderError(c, err)
		return
	}

	// 信封: count + next/previous 链接 + 当前页数据
	page, pageSize := repository.NormalizePage(req.Page, req.PageSize)
	var next, previous *string
	if int64(page)*int64(pageSize) < total {
		next = pageLink(c.Request, page+1)
	}
	if page > 1 {
		previous = pageLink(c.Request, page-1)
	}

	c.JSON(http.StatusOK, dto.PageResp{
		Count:    total,
		Next:     next,
		Previous: previous,
		Results:  results,
	})
}

// Create 创建条目
// POST /api/v1/knowledge
func (h *KnowledgeHandler) Create(c *gin.Context) {
	var req dto.CreateKnowledgeReq
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get 取单条 (已软删除的按不存在处理)
// GET /api/v1/knowledge/:id
func (h *KnowledgeHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		renderError(c, service.ErrNotFound)
		return
	}

	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update 全量更新，text 和 quiz 都必填
// PUT /api/v1/knowledge/:id
func (h *KnowledgeHandler) Update(c *gin.Context) {
	h.update(c, false)
}

// PartialUpdate 部分更新，字段都选填
// PATCH /api/v1/knowledge/:id
func (h *KnowledgeHandler) PartialUpdate(c *gin.Context) {
	h.update(c, true)
}

func (h *KnowledgeHandler) update(c *gin.Context, partial bool) {
	id, ok := parseID(c, "id")
	if !ok {
		renderError(c, service.ErrNotFound)
		return
	}

	var req dto.UpdateKnowledgeReq
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), id, req, partial)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete 软删除，成功无响应体
// DELETE /api/v1/knowledge/:id
func (h *KnowledgeHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		renderError(c, service.ErrNotFound)
		return
	}

	if err := h.svc.SoftDelete(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Restore 恢复软删除的条目
// POST /api/v1/knowledge/:id/restore
func (h *KnowledgeHandler) Restore(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		renderError(c, service.ErrNotFound)
		return
	}

	resp, err := h.svc.Restore(c.Request.Context(), id)
	if err != nil {
		renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
