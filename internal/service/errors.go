package service

import "errors"

// 业务层通用错误，handler 据此映射到合适的 HTTP 状态码。
// 存储层故障不在此列：它们原样向上传播，按服务端错误处理。
var (
	ErrNotFound            = errors.New("no outstanding verification for email")
	ErrInvalidCode         = errors.New("invalid verification code")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrEmptyMessage        = errors.New("message cannot be empty")
	ErrUnsupportedFileType = errors.New("file type not allowed")
	ErrPayloadTooLarge     = errors.New("payload too large")
)
