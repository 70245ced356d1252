package errors

import (
	"errors"
	"fmt"
)

// ErrorType 定义错误类型
type ErrorType int

const (
	// ErrTypeUnknown 未知错误
	ErrTypeUnknown ErrorType = iota
	// ErrTypeConfig 本地配置（环境映射）相关错误
	ErrTypeConfig
	// ErrTypeValidation 版本号或编辑请求校验错误
	ErrTypeValidation
	// ErrTypeNetwork 远端配置服务网络错误
	ErrTypeNetwork
	// ErrTypeDocument 远端文档结构错误
	ErrTypeDocument
)

// ConfitError 统一错误结构
type ConfitError struct {
	Type       ErrorType
	Message    string
	Cause      error
	Retryable  bool
	Suggestion string
}

// Error 实现 error 接口
func (e *ConfitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap 支持 errors.Is 和 errors.As
func (e *ConfitError) Unwrap() error {
	return e.Cause
}

// WithSuggestion 添加解决建议
func (e *ConfitError) WithSuggestion(suggestion string) *ConfitError {
	e.Suggestion = suggestion
	return e
}

// IsRetryable 检查错误是否可重试。confit 从不自动重试，
// 该标记仅用于提示用户重新运行命令。
func (e *ConfitError) IsRetryable() bool {
	return e.Retryable
}

// New 创建新的 ConfitError
func New(errType ErrorType, message string) *ConfitError {
	return &ConfitError{
		Type:      errType,
		Message:   message,
		Retryable: false,
	}
}

// Wrap 包装已有错误
func Wrap(errType ErrorType, message string, cause error) *ConfitError {
	return &ConfitError{
		Type:      errType,
		Message:   message,
		Cause:     cause,
		Retryable: false,
	}
}

// NewRetryable 创建可重试错误
func NewRetryable(errType ErrorType, message string) *ConfitError {
	return &ConfitError{
		Type:      errType,
		Message:   message,
		Retryable: true,
	}
}

// WrapRetryable 包装可重试错误
func WrapRetryable(errType ErrorType, message string, cause error) *ConfitError {
	return &ConfitError{
		Type:      errType,
		Message:   message,
		Cause:     cause,
		Retryable: true,
	}
}

// 预定义的常见错误
var (
	// 校验相关错误
	ErrMalformedRequest = New(ErrTypeValidation, "malformed edit request").
				WithSuggestion("--key requires either --value or --delete (and --value excludes --delete)")

	// 文档相关错误
	ErrNotAnObject = New(ErrTypeDocument, "remote config is not a JSON object")

	// ErrVersionsNotMapping sdkVersions 字段存在但不是映射
	ErrVersionsNotMapping = New(ErrTypeDocument, "sdkVersions is not a JSON mapping")
)

// Is 检查是否为特定错误
func Is(err error, target error) bool {
	return errors.Is(err, target)
}

// As 尝试转换为特定错误类型
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// IsType 判断错误链中是否包含指定类型的 ConfitError
func IsType(err error, errType ErrorType) bool {
	var ce *ConfitError
	if errors.As(err, &ce) {
		return ce.Type == errType
	}
	return false
}
