package server

import (
	"time"

	"github.com/example/shopbackend/internal/datamodels/order"
)

// orderItemDTO 订单行项目响应
type orderItemDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
}

// orderDTO 订单详情响应，总价为实时计算值
type orderDTO struct {
	ID         int64          `json:"id"`
	UserID     int64          `json:"user_id"`
	Status     string         `json:"status"`
	Items      []orderItemDTO `json:"items"`
	TotalValue int64          `json:"total_value"`
	CreatedAt  time.Time      `json:"created_at"`
}

// orderSummaryDTO 订单列表响应
type orderSummaryDTO struct {
	OrderID    int64     `json:"order_id"`
	OrderValue int64     `json:"order_value"`
	ItemCount  int       `json:"item_count"`
	Status     string    `json:"status"`
	Created    time.Time `json:"created"`
}

func toOrderDTO(o *order.Order) orderDTO {
	items := make([]orderItemDTO, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemDTO{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return orderDTO{
		ID:         o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		Items:      items,
		TotalValue: o.TotalValue(),
		CreatedAt:  o.CreatedAt,
	}
}

func toOrderSummaries(list []*order.Order) []orderSummaryDTO {
	out := make([]orderSummaryDTO, 0, len(list))
	for _, o := range list {
		out = append(out, orderSummaryDTO{
			OrderID:    o.ID,
			OrderValue: o.TotalValue(),
			ItemCount:  len(o.Items),
			Status:     string(o.Status),
			Created:    o.CreatedAt,
		})
	}
	return out
}
