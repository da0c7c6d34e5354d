package util

import (
	"errors"
	"fmt"
)

var (
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrPermissionDenied = errors.New("permission denied")
)

// CapacityError 容量或数量上限被触发，需要用户处理，不应自动重试
type CapacityError struct {
	Resource string
	Limit    int
}

func (e *CapacityError) Error() string {
	if e.Resource == "staging" {
		return fmt.Sprintf("staging zone is full (maximum %d items)", e.Limit)
	}
	return fmt.Sprintf("maximum of %d %s allowed", e.Limit, e.Resource)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// NotFoundError 引用的目标、任务或子任务不存在
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError 输入不合法，在任何写操作之前返回
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func NewCapacityError(resource string, limit int) error {
	return &CapacityError{Resource: resource, Limit: limit}
}

func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
