package common

import (
	"errors"
	"fmt"
	"time"
)

// AppError 应用级错误结构
type AppError struct {
	Code    string
	Message string // 面向用户的文案，页面直接展示
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// 错误码常量
// 这四类只针对主列表请求，单个 README 抓取失败不会进入这套分类
const (
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUserNotFound = "USER_NOT_FOUND"
	ErrCodeFetchFailed  = "FETCH_FAILED"
	ErrCodeNetwork      = "NETWORK_ERROR"
)

// NewRateLimited 403 限流，附带重置时间
func NewRateLimited(reset time.Time, err error) error {
	return &AppError{
		Code:    ErrCodeRateLimited,
		Message: fmt.Sprintf("Límite de API alcanzado. Se reiniciará a las %s", reset.Local().Format("15:04:05")),
		Err:     err,
	}
}

// NewUserNotFound 404 用户不存在
func NewUserNotFound(username string, err error) error {
	return &AppError{
		Code:    ErrCodeUserNotFound,
		Message: fmt.Sprintf("Usuario %q no encontrado en GitHub", username),
		Err:     err,
	}
}

// NewFetchFailed 其他非 2xx 状态码
func NewFetchFailed(status int, err error) error {
	return &AppError{
		Code:    ErrCodeFetchFailed,
		Message: fmt.Sprintf("Error %d: No se pudieron cargar los repositorios", status),
		Err:     err,
	}
}

// NewNetworkError 根本没拿到响应 (DNS、超时等)
func NewNetworkError(err error) error {
	return &AppError{
		Code:    ErrCodeNetwork,
		Message: "No se pudieron cargar los repositorios de GitHub",
		Err:     err,
	}
}

// CodeOf 取出错误码，不是 AppError 时返回空串
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// MessageOf 取出面向用户的文案
func MessageOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
