package dto

import "time"

// CreateKnowledgeReq 创建条目请求
// quiz 用指针区分 "没传" 和 "传了空数组"，没传时默认 []
type CreateKnowledgeReq struct {
	OwnerID string    `json:"owner_id"`
	Text    string    `json:"text"`
	Quiz    *[]string `json:"quiz"`
}

// UpdateKnowledgeReq 更新条目请求
// PATCH 两个字段都选填，PUT 要求都必填（由 service 校验）
// owner_id / id 不在这里出现：payload 里带了也会被静默忽略，而不是报错
type UpdateKnowledgeReq struct {
	Text *string   `json:"text"`
	Quiz *[]string `json:"quiz"`
}

// ListKnowledgeReq 列表查询参数
// 时间参数先按字符串接进来，由 service 解析校验 (RFC 3339)
// 未识别的查询参数直接忽略，不报错
type ListKnowledgeReq struct {
	OwnerID      string `form:"owner_id"`
	Text         string `form:"text"` // 大小写不敏感的包含匹配
	CreatedAtGte string `form:"created_at_gte"`
	CreatedAtLte string `form:"created_at_lte"`
	UpdatedAtGte string `form:"updated_at_gte"`
	UpdatedAtLte string `form:"updated_at_lte"`
	Ordering     string `form:"ordering,default=-created_at"`
	Page         int    `form:"page,default=1"`
	PageSize     int    `form:"page_size,default=20"`
}

// KnowledgeResp 条目响应
type KnowledgeResp struct {
	ID        uint                 `json:"id"`
	OwnerID   string               `json:"owner_id"`
	Text      string               `json:"text"`
	Quiz      []string             `json:"quiz"`
	Images    []KnowledgeImageResp `json:"images"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// KnowledgeImageResp 图片响应
type KnowledgeImageResp struct {
	ID        uint      `json:"id"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// PageResp 列表分页信封
// next/previous 在边界处为 null
type PageResp struct {
	Count    int64           `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  []KnowledgeResp `json:"results"`
}
