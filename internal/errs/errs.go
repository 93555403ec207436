// Package errs 定义各层共享的错误分类：不存在、参数校验、上游接口、存储。
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound 记录不存在
	ErrNotFound = errors.New("not found")
	// ErrValidation 参数校验失败
	ErrValidation = errors.New("validation failed")
	// ErrUpstream 第三方接口调用失败
	ErrUpstream = errors.New("upstream failed")
	// ErrStorage 持久化失败
	ErrStorage = errors.New("storage failed")
)

// NotFound 返回带实体名称的不存在错误
func NotFound(entity string, id uint) error {
	return fmt.Errorf("%s %d %w", entity, id, ErrNotFound)
}

// ValidationError 参数校验错误
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

// Unwrap 使 errors.Is(err, ErrValidation) 成立
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid 构造参数校验错误
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// UpstreamError 第三方接口错误，StatusCode 为 0 表示网络层失败
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("upstream %s failed", e.Endpoint)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is 匹配 ErrUpstream
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// Unwrap 返回底层错误
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StorageError 持久化错误
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Is 匹配 ErrStorage
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// Unwrap 返回底层错误
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage 包装持久化错误，nil 原样返回
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
