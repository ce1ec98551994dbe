package main

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/example/shopbackend/internal/config"
	"github.com/example/shopbackend/internal/infra/mq"
	"github.com/example/shopbackend/internal/service"
	"github.com/example/shopbackend/pkg/log"
)

// notify-worker 消费订单事件并发送通知
// 当前实现只落日志，后续可接邮件/短信渠道。
func main() {
	cfg, err := config.LoadConfig("./config")
	if err != nil {
		panic(err)
	}

	log.InitLogger()

	mqConn := mq.Init(&cfg.RabbitMQ)

	ch, err := mqConn.Channel()
	if err != nil {
		zap.L().Fatal("failed to open channel", zap.Error(err))
	}
	defer ch.Close()

	if _, err = ch.QueueDeclare(mq.OrderEventQueue, true, false, false, false, nil); err != nil {
		zap.L().Fatal("failed to declare queue", zap.Error(err))
	}

	// 手动确认模式（auto-ack=false）
	msgs, err := ch.Consume(mq.OrderEventQueue, "", false, false, false, false, nil)
	if err != nil {
		zap.L().Fatal("failed to consume", zap.Error(err))
	}

	zap.L().Info("notify worker started, waiting for order events...")

	for d := range msgs {
		var m service.OrderEventMessage
		if err := json.Unmarshal(d.Body, &m); err != nil {
			zap.L().Warn("invalid order event", zap.Error(err))
			// 消息格式错误，拒绝并丢弃
			_ = d.Nack(false, false)
			continue
		}

		zap.L().Info("order event",
			zap.Int64("order_id", m.OrderID),
			zap.Int64("user_id", m.UserID),
			zap.String("status", m.Status),
			zap.Int64("total_value", m.TotalValue),
			zap.String("occurred_at", m.OccurredAt))

		if err := d.Ack(false); err != nil {
			zap.L().Warn("failed to ack message", zap.Error(err))
		}
	}
}
