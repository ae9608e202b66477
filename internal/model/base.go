package model

import "time"

// BaseModel 替代 gorm.Model，方便自定义 JSON tag
// 注意：DeletedAt 用普通指针而不是 gorm.DeletedAt。
// 软删除需要支持 restore，且只有公开读路径才过滤已删除记录，
// gorm 的全局软删除 scope 会让查询范围悄悄泄漏，这里改由 repository 显式加条件。
type BaseModel struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `gorm:"index" json:"-"`
}
