package model

import (
	"time"

	"gorm.io/datatypes"
)

// Knowledge 知识条目
type Knowledge struct {
	BaseModel
	// 归属用户，创建后不可变更
	OwnerID string `gorm:"size:255;not null;index" json:"owner_id"`
	Text    string `gorm:"not null" json:"text"`

	// 测验题列表 (JSON)，整体替换，永远是数组（空时为 []）
	Quiz datatypes.JSONSlice[string] `json:"quiz"`

	// 🔗 关联图片 (一对多)
	Images []KnowledgeImage `gorm:"foreignKey:KnowledgeID" json:"images"`
}

// IsDeleted deleted_at 非空即视为已软删除
func (k *Knowledge) IsDeleted() bool {
	return k.DeletedAt != nil
}

// KnowledgeImage 条目附带的图片
// 二进制存 MinIO，这里只存对象路径；图片删除是硬删除
type KnowledgeImage struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	KnowledgeID uint      `gorm:"index;not null" json:"knowledge_id"`
	ObjectKey   string    `gorm:"not null" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
