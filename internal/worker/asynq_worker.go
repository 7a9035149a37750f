package worker

import (
	"context"
	"strings"

	"github.com/MekalaManojKumar1128/pappaladabba/internal/logger"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/provider"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderSubmitted, c.handleOrderSubmitted)
}

func (c *Consumer) handleOrderSubmitted(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_submitted_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderSubmittedPayload(task)
	if err != nil {
		logger.Warnw("worker_order_submitted_unmarshal_failed", "error", err)
		return err
	}
	order := payload.Order
	if strings.TrimSpace(order.ID) == "" || len(order.Items) == 0 {
		logger.Debugw("worker_order_submitted_skip_invalid_payload", "order_id", order.ID, "item_count", len(order.Items))
		return nil
	}
	if c.OrderLedger == nil {
		logger.Warnw("worker_order_submitted_skip_ledger_nil", "order_id", order.ID)
		return nil
	}
	if err := c.OrderLedger.Record(ctx, order); err != nil {
		logger.Warnw("worker_order_submitted_record_failed", "order_id", order.ID, "error", err)
		return err
	}
	logger.Infow("worker_order_submitted_recorded",
		"order_id", order.ID,
		"status", order.Status,
		"payment_method", order.PaymentMethod,
		"total", order.Total.String(),
	)
	return nil
}
