package product

import (
	"context"
	"time"
)

// Product 商品模型
type Product struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Price     int64     `gorm:"not null" json:"price"` // 分
	Stock     int64     `gorm:"not null" json:"stock"` // 恒 >= 0，由仓储的条件更新保证
	ImageKey  *string   `gorm:"size:256" json:"image_key,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository 商品仓储接口
type Repository interface {
	GetByID(ctx context.Context, id int64) (*Product, error)
	ListAll(ctx context.Context) ([]*Product, error)
	// SearchByName 按名称模糊匹配（忽略大小写）
	SearchByName(ctx context.Context, query string) ([]*Product, error)
	// ListInStock inStock 为 true 时返回有库存商品，否则返回无库存商品
	ListInStock(ctx context.Context, inStock bool) ([]*Product, error)
	// ListPriceBetween 查询价格在 [from, to] 内的商品，调用方需保证 from <= to
	ListPriceBetween(ctx context.Context, from, to int64) ([]*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	// ReserveStock 原子扣减库存：仅当剩余库存 >= qty 时扣减成功
	// 返回 false 表示库存不足（或商品不存在），库存保持不变。
	ReserveStock(ctx context.Context, id, qty int64) (bool, error)
	// ReleaseStock 原子归还库存，用于订单取消
	ReleaseStock(ctx context.Context, id, qty int64) error
}
