package service

import "errors"

// 哨兵错误，handler 层映射为对应的 HTTP 状态码
var (
	ErrNotFound      = errors.New("knowledge entry not found")
	ErrImageNotFound = errors.New("image not found")
	ErrNotDeleted    = errors.New("knowledge entry is not deleted")
)

// ValidationError 校验错误 → 400
// Field 非空时渲染成 {field: [message]}，否则渲染成 {detail: message}
// 校验都发生在写库之前，校验失败不会产生半截写入
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
