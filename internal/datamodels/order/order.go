package order

import (
	"context"
	"time"

	"github.com/example/shopbackend/internal/common"
)

// Order 订单模型
// Items 归订单独占：随订单一起创建，删除订单时级联删除。
type Order struct {
	ID        int64       `gorm:"primaryKey" json:"id"`
	UserID    int64       `gorm:"index;not null" json:"user_id"`
	Status    Status      `gorm:"type:varchar(16);index;not null" json:"status"`
	Items     []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"` // 创建时写入一次，之后不变
	UpdatedAt time.Time   `json:"updated_at"`
}

// OrderItem 订单行项目
// UnitPrice 为下单时的价格快照，商品后续调价不影响已有订单。
type OrderItem struct {
	ID        int64 `gorm:"primaryKey" json:"id"`
	OrderID   int64 `gorm:"index;not null" json:"order_id"`
	ProductID int64 `gorm:"index;not null" json:"product_id"`
	Quantity  int64 `gorm:"not null" json:"quantity"` // 恒 >= 1
	UnitPrice int64 `gorm:"not null" json:"unit_price"`
}

// TotalValue 订单总价 = Σ(单价快照 × 数量)，每次调用实时计算，从不落库
func (o *Order) TotalValue() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.UnitPrice * item.Quantity
	}
	return total
}

// ChangeStatus 按状态机迁移订单状态
// 不在当前状态允许集合内的迁移返回 InvalidStatusTransitionError。
func (o *Order) ChangeStatus(target Status) error {
	if !o.Status.CanTransitionTo(target) {
		next := o.Status.AllowedNext()
		allowed := make([]string, len(next))
		for i, s := range next {
			allowed[i] = string(s)
		}
		return &common.InvalidStatusTransitionError{
			From:        string(o.Status),
			To:          string(target),
			AllowedNext: allowed,
		}
	}
	o.Status = target
	return nil
}

// Repository 订单仓储接口
type Repository interface {
	// Create 持久化订单及其全部行项目，作为一次写入
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	// ListAll 按创建时间倒序返回全部订单
	ListAll(ctx context.Context) ([]*Order, error)
	ListByUser(ctx context.Context, userID int64) ([]*Order, error)
	ListByStatus(ctx context.Context, status Status) ([]*Order, error)
	// ListCreatedBetween 查询创建时间在 [from, to] 内的订单，调用方需保证 from <= to
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	// Delete 删除订单并级联删除行项目
	Delete(ctx context.Context, id int64) error
}
