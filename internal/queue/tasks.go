package queue

import (
	"encoding/json"

	"github.com/MekalaManojKumar1128/pappaladabba/internal/constants"
	"github.com/MekalaManojKumar1128/pappaladabba/internal/models"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderSubmitted 订单提交任务
	TaskOrderSubmitted = constants.TaskOrderSubmitted
)

// OrderSubmittedPayload 订单提交任务载荷
type OrderSubmittedPayload struct {
	Order models.Order `json:"order"`
}

// NewOrderSubmittedTask 创建订单提交任务，任务 id 取订单号以便重复提交去重
func NewOrderSubmittedTask(payload OrderSubmittedPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderSubmitted, body, asynq.TaskID(payload.Order.ID)), nil
}

// ParseOrderSubmittedPayload 解析订单提交任务载荷
func ParseOrderSubmittedPayload(task *asynq.Task) (OrderSubmittedPayload, error) {
	var payload OrderSubmittedPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return OrderSubmittedPayload{}, err
	}
	return payload, nil
}
