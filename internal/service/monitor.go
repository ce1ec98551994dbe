package service

import (
	"sync"
	"time"
)

// Monitor 监控服务，统计下单链路的错误与吞吐
type Monitor struct {
	mu sync.RWMutex

	// 错误统计
	DBErrors    int64
	MQErrors    int64
	CacheErrors int64

	// 业务统计
	OrderRequests  int64
	OrdersCreated  int64
	OutOfStockHits int64
	StatusChanges  int64
	Cancellations  int64

	// 时间统计
	LastDBError   time.Time
	LastMQError   time.Time
	LastOrderTime time.Time
}

var globalMonitor = &Monitor{}

// GetMonitor 获取全局监控实例
func GetMonitor() *Monitor {
	return globalMonitor
}

// RecordDBError 记录数据库错误
func (m *Monitor) RecordDBError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DBErrors++
	m.LastDBError = time.Now()
}

// RecordMQError 记录MQ错误
func (m *Monitor) RecordMQError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MQErrors++
	m.LastMQError = time.Now()
}

// RecordCacheError 记录缓存错误
func (m *Monitor) RecordCacheError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheErrors++
}

// RecordOrderRequest 记录下单请求
func (m *Monitor) RecordOrderRequest() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrderRequests++
	m.LastOrderTime = time.Now()
}

// RecordOrderCreated 记录下单成功
func (m *Monitor) RecordOrderCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OrdersCreated++
}

// RecordOutOfStock 记录库存不足
func (m *Monitor) RecordOutOfStock() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OutOfStockHits++
}

// RecordStatusChange 记录状态迁移
func (m *Monitor) RecordStatusChange() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StatusChanges++
}

// RecordCancellation 记录订单取消
func (m *Monitor) RecordCancellation() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cancellations++
}

// GetStats 获取统计信息
func (m *Monitor) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	successRate := float64(0)
	if m.OrderRequests > 0 {
		successRate = float64(m.OrdersCreated) / float64(m.OrderRequests) * 100
	}

	return map[string]interface{}{
		"errors": map[string]interface{}{
			"db":    m.DBErrors,
			"mq":    m.MQErrors,
			"cache": m.CacheErrors,
		},
		"orders": map[string]interface{}{
			"requests":       m.OrderRequests,
			"created":        m.OrdersCreated,
			"success_rate":   successRate,
			"out_of_stock":   m.OutOfStockHits,
			"status_changes": m.StatusChanges,
			"cancellations":  m.Cancellations,
		},
		"last_events": map[string]interface{}{
			"db_error":   m.LastDBError,
			"mq_error":   m.LastMQError,
			"last_order": m.LastOrderTime,
		},
	}
}

// Reset 重置统计（用于测试）
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DBErrors = 0
	m.MQErrors = 0
	m.CacheErrors = 0
	m.OrderRequests = 0
	m.OrdersCreated = 0
	m.OutOfStockHits = 0
	m.StatusChanges = 0
	m.Cancellations = 0
	m.LastDBError = time.Time{}
	m.LastMQError = time.Time{}
	m.LastOrderTime = time.Time{}
}
