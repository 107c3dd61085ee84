package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized       = errors.New("未登录或登录已过期")
	ErrNotFound           = errors.New("资源不存在")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
)

// RequestError 服务端返回的其他非 2xx 响应
type RequestError struct {
	StatusCode int
	Detail     string
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("请求失败 (%d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("请求失败 (%d)", e.StatusCode)
}
