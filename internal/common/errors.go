package common

import (
	"fmt"
	"strings"
	"time"
)

// 业务错误类型，供 HTTP 层按类型映射响应码。
// 所有错误携带结构化字段，彼此可通过 errors.As 区分。

// NotFoundError 目标资源不存在
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s 不存在 (id=%d)", e.Resource, e.ID)
}

// OutOfStockError 库存不足，预占失败
type OutOfStockError struct {
	ProductID int64
	Requested int64
	Available int64
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("商品 %d 库存不足：需要 %d 件，仅剩 %d 件", e.ProductID, e.Requested, e.Available)
}

// InvalidStatusError 无法识别的订单状态字面量（解析层错误）
type InvalidStatusError struct {
	Given   string
	Allowed []string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("无效的订单状态 %q，合法取值：%s", e.Given, strings.Join(e.Allowed, ", "))
}

// InvalidStatusTransitionError 状态合法但当前状态不允许该迁移
type InvalidStatusTransitionError struct {
	From        string
	To          string
	AllowedNext []string
}

func (e *InvalidStatusTransitionError) Error() string {
	if len(e.AllowedNext) == 0 {
		return fmt.Sprintf("订单状态 %s 为终态，不允许迁移到 %s", e.From, e.To)
	}
	return fmt.Sprintf("订单状态不允许从 %s 迁移到 %s，可选：%s", e.From, e.To, strings.Join(e.AllowedNext, ", "))
}

// InvalidRangeError 区间过滤条件上下界颠倒
type InvalidRangeError struct {
	From string
	To   string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("无效的区间：from=%s 大于 to=%s", e.From, e.To)
}

// NewInvalidDateRange 构造时间区间错误
func NewInvalidDateRange(from, to time.Time) *InvalidRangeError {
	return &InvalidRangeError{
		From: from.Format(time.RFC3339),
		To:   to.Format(time.RFC3339),
	}
}

// NewInvalidPriceRange 构造价格区间错误
func NewInvalidPriceRange(from, to int64) *InvalidRangeError {
	return &InvalidRangeError{
		From: fmt.Sprintf("%d", from),
		To:   fmt.Sprintf("%d", to),
	}
}

// ImageTooLargeError 上传图片超出大小限制
type ImageTooLargeError struct {
	MaxBytes    int64
	ActualBytes int64
}

func (e *ImageTooLargeError) Error() string {
	return fmt.Sprintf("图片过大：上限 %d 字节，实际 %d 字节", e.MaxBytes, e.ActualBytes)
}

// InvalidImageTypeError 上传图片类型不支持
type InvalidImageTypeError struct {
	Given   string
	Allowed []string
}

func (e *InvalidImageTypeError) Error() string {
	return fmt.Sprintf("不支持的图片类型 %q，支持：%s", e.Given, strings.Join(e.Allowed, ", "))
}
