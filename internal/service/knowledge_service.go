package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"knowledge-base/internal/dto"
	"knowledge-base/internal/model"
	"knowledge-base/internal/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type KnowledgeService struct {
	repo         *repository.KnowledgeRepo
	mediaBaseURL string
}

func NewKnowledgeService(repo *repository.KnowledgeRepo, mediaBaseURL string) *KnowledgeService {
	return &KnowledgeService{repo: repo, mediaBaseURL: mediaBaseURL}
}

// owner_id 列宽 255，超长要在落库前拦下来，不能指望驱动报错
const maxOwnerIDLen = 255

// Create 创建条目
// owner_id 和 text 必填；quiz 不传时默认空数组
func (s *KnowledgeService) Create(ctx context.Context, req dto.CreateKnowledgeReq) (*dto.KnowledgeResp, error) {
	if strings.TrimSpace(req.OwnerID) == "" {
		return nil, &ValidationError{Field: "owner_id", Message: "This field is required."}
	}
	if utf8.RuneCountInString(req.OwnerID) > maxOwnerIDLen {
		return nil, &ValidationError{Field: "owner_id", Message: "Ensure this field has no more than 255 characters."}
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, &ValidationError{Field: "text", Message: "This field is required."}
	}

	quiz := []string{}
	if req.Quiz != nil {
		quiz = *req.Quiz
	}

	k := &model.Knowledge{
		OwnerID: req.OwnerID,
		Text:    req.Text,
		Quiz:    datatypes.NewJSONSlice(quiz),
	}
	if err := s.repo.Create(ctx, k); err != nil {
		return nil, err
	}
	return toKnowledgeResp(k, s.mediaBaseURL), nil
}

// Get 公开读路径，已软删除的条目按不存在处理
func (s *KnowledgeService) Get(ctx context.Context, id uint) (*dto.KnowledgeResp, error) {
	k, err := s.repo.GetActive(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return toKnowledgeResp(k, s.mediaBaseURL), nil
}

// Update 更新条目
// partial=true (PATCH) 时两个字段都选填；PUT 要求 text 和 quiz 都在
// owner_id / id 永远不可变，payload 里带了也不会走到这里（DTO 没这个字段）
func (s *KnowledgeService) Update(ctx context.Context, id uint, req dto.UpdateKnowledgeReq, partial bool) (*dto.KnowledgeResp, error) {
	if !partial {
		if req.Text == nil {
			return nil, &ValidationError{Field: "text", Message: "This field is required."}
		}
		if req.Quiz == nil {
			return nil, &ValidationError{Field: "quiz", Message: "This field is required."}
		}
	}

	k, err := s.repo.GetActive(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Text != nil {
		fields["text"] = *req.Text
	}
	if req.Quiz != nil {
		fields["quiz"] = datatypes.NewJSONSlice(*req.Quiz)
	}
	// 空的 PATCH 也算一次成功更新，照样刷新 updated_at
	if len(fields) == 0 {
		fields["updated_at"] = time.Now()
	}
	if err := s.repo.Update(ctx, k, fields); err != nil {
		return nil, err
	}

	// 重新读一遍，返回落库后的最终状态
	return s.Get(ctx, id)
}

// SoftDelete 软删除：打上 deleted_at 标记，刷新 updated_at
// 只能从未删除状态转换，已删除的条目在公开路径上视为不存在
func (s *KnowledgeService) SoftDelete(ctx context.Context, id uint) error {
	k, err := s.repo.GetActive(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	now := time.Now()
	return s.repo.Update(ctx, k, map[string]interface{}{"deleted_at": &now})
}

// Restore 恢复软删除的条目
// 查找要越过可见性过滤；条目根本不存在 → NotFound，没删过 → NotDeleted
func (s *KnowledgeService) Restore(ctx context.Context, id uint) (*dto.KnowledgeResp, error) {
	k, err := s.repo.GetAny(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !k.IsDeleted() {
		return nil, ErrNotDeleted
	}
	if err := s.repo.Update(ctx, k, map[string]interface{}{"deleted_at": nil}); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// List 过滤 + 排序 + 分页
func (s *KnowledgeService) List(ctx context.Context, req dto.ListKnowledgeReq) ([]dto.KnowledgeResp, int64, error) {
	filter, err := s.buildFilter(req)
	if err != nil {
		return nil, 0, err
	}

	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	results := make([]dto.KnowledgeResp, 0, len(rows))
	for i := range rows {
		results = append(results, *toKnowledgeResp(&rows[i], s.mediaBaseURL))
	}
	return results, total, nil
}

// buildFilter 把查询参数翻译成 repository 的过滤条件
// 排序字段走白名单，没见过的字段直接报校验错误；时间参数要求 RFC 3339
func (s *KnowledgeService) buildFilter(req dto.ListKnowledgeReq) (repository.KnowledgeFilter, error) {
	f := repository.KnowledgeFilter{
		OwnerID:      req.OwnerID,
		TextContains: req.Text,
		Page:         req.Page,
		PageSize:     req.PageSize,
	}

	ordering := req.Ordering
	if ordering == "" {
		ordering = "-created_at"
	}
	f.Desc = strings.HasPrefix(ordering, "-")
	f.OrderBy = strings.TrimPrefix(ordering, "-")
	if !repository.OrderableColumns[f.OrderBy] {
		return f, &ValidationError{
			Field:   "ordering",
			Message: fmt.Sprintf("Invalid ordering field: %s.", f.OrderBy),
		}
	}

	var err error
	if f.CreatedAtGte, err = parseTimeParam("created_at_gte", req.CreatedAtGte); err != nil {
		return f, err
	}
	if f.CreatedAtLte, err = parseTimeParam("created_at_lte", req.CreatedAtLte); err != nil {
		return f, err
	}
	if f.UpdatedAtGte, err = parseTimeParam("updated_at_gte", req.UpdatedAtGte); err != nil {
		return f, err
	}
	if f.UpdatedAtLte, err = parseTimeParam("updated_at_lte", req.UpdatedAtLte); err != nil {
		return f, err
	}
	return f, nil
}

func parseTimeParam(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: "Enter a valid datetime (RFC 3339)."}
	}
	return &t, nil
}
