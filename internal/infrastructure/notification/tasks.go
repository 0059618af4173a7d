package notification

import (
	"encoding/json"
	"fmt"

	appinventory "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/inventory"
	appproduction "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/production"
	"github.com/hibiken/asynq"
)

// Task types
const (
	TaskJobStatusNotification = "job.status_notification"
	TaskStockAlert            = "inventory.stock_alert"
)

// JobStatusNotificationPayload is the queued form of a job status notice
type JobStatusNotificationPayload struct {
	TenantID      string                            `json:"tenantId"`
	TargetUserIDs []string                          `json:"targetUserIds,omitempty"`
	Notice        appproduction.NotificationPayload `json:"notice"`
}

// StockAlertPayload is the queued form of a restocking alert
type StockAlertPayload struct {
	Alert appinventory.StockAlert `json:"alert"`
}

// NewJobStatusNotificationTask builds the task for a job status notice
func NewJobStatusNotificationTask(payload JobStatusNotificationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskJobStatusNotification, data), nil
}

// ParseJobStatusNotificationPayload decodes a job status notice task
func ParseJobStatusNotificationPayload(task *asynq.Task) (JobStatusNotificationPayload, error) {
	var payload JobStatusNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return JobStatusNotificationPayload{}, fmt.Errorf("decode %s payload: %w", TaskJobStatusNotification, err)
	}
	return payload, nil
}

// NewStockAlertTask builds the task for a restocking alert
func NewStockAlertTask(alert appinventory.StockAlert) (*asynq.Task, error) {
	data, err := json.Marshal(StockAlertPayload{Alert: alert})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStockAlert, data), nil
}

// ParseStockAlertPayload decodes a restocking alert task
func ParseStockAlertPayload(task *asynq.Task) (StockAlertPayload, error) {
	var payload StockAlertPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return StockAlertPayload{}, fmt.Errorf("decode %s payload: %w", TaskStockAlert, err)
	}
	return payload, nil
}
