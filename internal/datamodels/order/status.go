package order

import (
	"github.com/example/shopbackend/internal/common"
)

// Status 订单状态
type Status string

const (
	StatusCreated   Status = "CREATED"
	StatusPaid      Status = "PAID"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// allowedNext 状态机迁移表：每个状态允许的下一个状态
// DELIVERED 和 CANCELLED 为终态，没有出边。
var allowedNext = map[Status][]Status{
	StatusCreated:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// AllStatuses 全部合法状态，顺序固定用于错误提示
func AllStatuses() []string {
	return []string{
		string(StatusCreated),
		string(StatusPaid),
		string(StatusShipped),
		string(StatusDelivered),
		string(StatusCancelled),
	}
}

// ParseStatus 解析状态字面量，未知取值返回 InvalidStatusError
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := allowedNext[s]; !ok {
		return "", &common.InvalidStatusError{
			Given:   raw,
			Allowed: AllStatuses(),
		}
	}
	return s, nil
}

// AllowedNext 当前状态允许迁移到的状态集合
func (s Status) AllowedNext() []Status {
	next := allowedNext[s]
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo 判断是否允许迁移到 target
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range allowedNext[s] {
		if next == target {
			return true
		}
	}
	return false
}
