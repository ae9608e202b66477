package repository

import (
	"context"
	"strings"
	"time"

	"knowledge-base/internal/model"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// OrderableColumns 排序字段白名单
// 查询只能按这张表里声明的列排序，不做字段名反射
var OrderableColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"owner_id":   true,
}

// KnowledgeFilter 列表查询条件，多个条件之间是 AND 关系
type KnowledgeFilter struct {
	OwnerID      string // 精确匹配
	TextContains string // 大小写不敏感的包含匹配
	CreatedAtGte *time.Time
	CreatedAtLte *time.Time
	UpdatedAtGte *time.Time
	UpdatedAtLte *time.Time

	OrderBy string // OrderableColumns 中的列名，空则 created_at
	Desc    bool

	Page     int // 1 起始
	PageSize int
}

type KnowledgeRepo struct {
	db *gorm.DB
}

func NewKnowledgeRepo(db *gorm.DB) *KnowledgeRepo {
	return &KnowledgeRepo{db: db}
}

// GetActive 公开读路径：只返回未软删除的条目
func (r *KnowledgeRepo) GetActive(ctx context.Context, id uint) (*model.Knowledge, error) {
	var k model.Knowledge
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&k).Error
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// GetAny 越过软删除过滤的查找，restore 等内部操作用
func (r *KnowledgeRepo) GetAny(ctx context.Context, id uint) (*model.Knowledge, error) {
	var k model.Knowledge
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("id = ?", id).
		First(&k).Error
	if err != nil {
		return nil, err
	}
	return &k, nil
}

func (r *KnowledgeRepo) Create(ctx context.Context, k *model.Knowledge) error {
	return r.db.WithContext(ctx).Create(k).Error
}

// Update 按字段更新，gorm 会自动刷新 updated_at
func (r *KnowledgeRepo) Update(ctx context.Context, k *model.Knowledge, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(k).Updates(fields).Error
}

// List 过滤 + 排序 + 分页，只扫未删除的条目
// 返回当前页数据和过滤后、分页前的总数
func (r *KnowledgeRepo) List(ctx context.Context, f KnowledgeFilter) ([]model.Knowledge, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Knowledge{}).Where("deleted_at IS NULL")

	if f.OwnerID != "" {
		db = db.Where("owner_id = ?", f.OwnerID)
	}
	if f.TextContains != "" {
		db = db.Where("LOWER(text) LIKE ?", "%"+strings.ToLower(f.TextContains)+"%")
	}
	if f.CreatedAtGte != nil {
		db = db.Where("created_at >= ?", *f.CreatedAtGte)
	}
	if f.CreatedAtLte != nil {
		db = db.Where("created_at <= ?", *f.CreatedAtLte)
	}
	if f.UpdatedAtGte != nil {
		db = db.Where("updated_at >= ?", *f.UpdatedAtGte)
	}
	if f.UpdatedAtLte != nil {
		db = db.Where("updated_at <= ?", *f.UpdatedAtLte)
	}

	// 计算总数
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	page, pageSize := NormalizePage(f.Page, f.PageSize)
	orderBy := f.OrderBy
	if orderBy == "" {
		orderBy = "created_at"
	}
	direction := "ASC"
	if f.Desc {
		direction = "DESC"
	}

	var rows []model.Knowledge
	err := db.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Order(orderBy + " " + direction).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// NormalizePage 页码兜底 + 页大小封顶 (超限截断而不是报错)
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// GetImage 图片查找按 {knowledge_id, image_id} 成对限定
// 别的条目下的图片 ID 一律按不存在处理
func (r *KnowledgeRepo) GetImage(ctx context.Context, knowledgeID, imageID uint) (*model.KnowledgeImage, error) {
	var img model.KnowledgeImage
	err := r.db.WithContext(ctx).
		Where("id = ? AND knowledge_id = ?", imageID, knowledgeID).
		First(&img).Error
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *KnowledgeRepo) CreateImage(ctx context.Context, img *model.KnowledgeImage) error {
	return r.db.WithContext(ctx).Create(img).Error
}

// DeleteImage 图片是硬删除，不影响父条目的任何字段
func (r *KnowledgeRepo) DeleteImage(ctx context.Context, imageID uint) error {
	return r.db.WithContext(ctx).Delete(&model.KnowledgeImage{}, imageID).Error
}
