package service

import "errors"

// 业务层错误分类。Handler 层根据这些错误决定对客户端的响应。
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrRoomNotFound         = errors.New("room not found")
	ErrAccessDenied         = errors.New("access to this room is denied")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrRegistrationFailed   = errors.New("registration failed: username or email already exists")
	ErrValidation           = errors.New("missing or invalid required field")
	ErrInternalServer       = errors.New("internal server error")
)
