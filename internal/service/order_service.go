package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/shopbackend/internal/common"
	"github.com/example/shopbackend/internal/datamodels/order"
	"github.com/example/shopbackend/internal/infra/mq"
	"github.com/example/shopbackend/internal/repository/mysql"
)

// CreateOrderItem 下单请求中的一行：商品与数量
type CreateOrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// OrderEventMessage 订单事件，提交成功后投递到 MQ
type OrderEventMessage struct {
	OrderID    int64  `json:"order_id"`
	UserID     int64  `json:"user_id"`
	Status     string `json:"status"`
	TotalValue int64  `json:"total_value"`
	OccurredAt string `json:"occurred_at"`
}

// OrderService 订单生命周期服务
// 创建、状态迁移、取消都在单个数据库事务内完成，
// 库存预占与订单写入要么全部生效要么全部回滚。
type OrderService struct {
	db     *gorm.DB
	mqConn *amqp.Connection
}

// NewOrderService 创建订单服务，mqConn 可为 nil（不投递事件）
func NewOrderService(db *gorm.DB, mqConn *amqp.Connection) *OrderService {
	return &OrderService{db: db, mqConn: mqConn}
}

// Create 创建订单：逐行预占库存、记录价格快照、落库订单与行项目
// 任意一行库存不足则整单失败，事务回滚已预占的库存。
func (s *OrderService) Create(ctx context.Context, userID int64, items []CreateOrderItem) (*order.Order, error) {
	GetMonitor().RecordOrderRequest()

	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, errors.New("数量必须大于 0")
		}
	}

	var result *order.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := mysql.NewProductRepository(tx)
		orders := mysql.NewOrderRepository(tx)

		o := &order.Order{
			UserID: userID,
			Status: order.StatusCreated,
		}

		for _, it := range items {
			p, err := products.GetByID(ctx, it.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &common.NotFoundError{Resource: "商品", ID: it.ProductID}
				}
				GetMonitor().RecordDBError()
				return err
			}

			ok, err := products.ReserveStock(ctx, p.ID, it.Quantity)
			if err != nil {
				GetMonitor().RecordDBError()
				return err
			}
			if !ok {
				// 预占失败，读取当前库存用于错误提示；回滚由事务保证
				available := int64(0)
				if cur, err := products.GetByID(ctx, p.ID); err == nil {
					available = cur.Stock
				}
				GetMonitor().RecordOutOfStock()
				return &common.OutOfStockError{
					ProductID: p.ID,
					Requested: it.Quantity,
					Available: available,
				}
			}

			// 价格快照取自事务内读到的当前价格
			o.Items = append(o.Items, order.OrderItem{
				ProductID: p.ID,
				Quantity:  it.Quantity,
				UnitPrice: p.Price,
			})
		}

		if err := orders.Create(ctx, o); err != nil {
			GetMonitor().RecordDBError()
			return err
		}
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	GetMonitor().RecordOrderCreated()
	s.publishEvent(ctx, result)
	return result, nil
}

// ChangeStatus 迁移订单状态，raw 为状态字面量
// 迁移到 CANCELLED 时在同一事务内归还全部行项目的库存。
func (s *OrderService) ChangeStatus(ctx context.Context, id int64, raw string) (*order.Order, error) {
	status, err := order.ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	return s.changeStatus(ctx, id, status)
}

// Cancel 取消订单，等价于迁移到 CANCELLED
// 已取消的订单再次取消会因状态机拒绝而报错，不会重复归还库存。
func (s *OrderService) Cancel(ctx context.Context, id int64) (*order.Order, error) {
	return s.changeStatus(ctx, id, order.StatusCancelled)
}

func (s *OrderService) changeStatus(ctx context.Context, id int64, status order.Status) (*order.Order, error) {
	var result *order.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := mysql.NewProductRepository(tx)
		orders := mysql.NewOrderRepository(tx)

		o, err := orders.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &common.NotFoundError{Resource: "订单", ID: id}
			}
			GetMonitor().RecordDBError()
			return err
		}

		if err := o.ChangeStatus(status); err != nil {
			return err
		}

		if status == order.StatusCancelled {
			for _, item := range o.Items {
				if err := products.ReleaseStock(ctx, item.ProductID, item.Quantity); err != nil {
					GetMonitor().RecordDBError()
					return err
				}
			}
		}

		if err := orders.UpdateStatus(ctx, o.ID, o.Status); err != nil {
			GetMonitor().RecordDBError()
			return err
		}
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	GetMonitor().RecordStatusChange()
	if status == order.StatusCancelled {
		GetMonitor().RecordCancellation()
	}
	s.publishEvent(ctx, result)
	return result, nil
}

// GetByID 查询订单，不存在返回 NotFoundError
func (s *OrderService) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	o, err := mysql.NewOrderRepository(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &common.NotFoundError{Resource: "订单", ID: id}
		}
		return nil, err
	}
	return o, nil
}

// ListAll 查询全部订单，按创建时间倒序
func (s *OrderService) ListAll(ctx context.Context) ([]*order.Order, error) {
	return mysql.NewOrderRepository(s.db).ListAll(ctx)
}

// ListMine 查询指定用户的订单，用户 ID 由调用方显式传入
func (s *OrderService) ListMine(ctx context.Context, userID int64) ([]*order.Order, error) {
	return mysql.NewOrderRepository(s.db).ListByUser(ctx, userID)
}

// ListByStatus 按状态过滤订单，非法字面量与状态迁移共用同一解析器
func (s *OrderService) ListByStatus(ctx context.Context, raw string) ([]*order.Order, error) {
	status, err := order.ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	return mysql.NewOrderRepository(s.db).ListByStatus(ctx, status)
}

// ListCreatedBetween 按创建时间区间过滤订单，from > to 返回 InvalidRangeError
func (s *OrderService) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]*order.Order, error) {
	if from.After(to) {
		return nil, common.NewInvalidDateRange(from, to)
	}
	return mysql.NewOrderRepository(s.db).ListCreatedBetween(ctx, from, to)
}

// Delete 删除订单及其行项目（后台运维用）
func (s *OrderService) Delete(ctx context.Context, id int64) error {
	err := mysql.NewOrderRepository(s.db).Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &common.NotFoundError{Resource: "订单", ID: id}
	}
	return err
}

// publishEvent 提交成功后投递订单事件，失败只记日志，不影响已提交的结果
func (s *OrderService) publishEvent(ctx context.Context, o *order.Order) {
	if s.mqConn == nil || o == nil {
		return
	}

	ch, err := s.mqConn.Channel()
	if err != nil {
		GetMonitor().RecordMQError()
		zap.L().Warn("failed to open mq channel", zap.Error(err))
		return
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(mq.OrderEventQueue, true, false, false, false, nil); err != nil {
		GetMonitor().RecordMQError()
		zap.L().Warn("failed to declare order event queue", zap.Error(err))
		return
	}

	body, err := json.Marshal(&OrderEventMessage{
		OrderID:    o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		TotalValue: o.TotalValue(),
		OccurredAt: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		zap.L().Warn("failed to marshal order event", zap.Error(err))
		return
	}

	err = ch.PublishWithContext(
		ctx,
		"",
		mq.OrderEventQueue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		GetMonitor().RecordMQError()
		zap.L().Warn("failed to publish order event",
			zap.Int64("order_id", o.ID), zap.Error(err))
	}
}
