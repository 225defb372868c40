package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskCRMWebhookDeliver = "crm.webhook.deliver"

const TaskCRMSyncBatch = "crm.sync.batch"

const TaskNotificationOutboxDue = "notification.outbox.due"

type CRMWebhookDeliverPayload struct {
	IntegrationID string `json:"integrationId"`
	LeadID        string `json:"leadId"`
	Event         string `json:"event"`
}

type NotificationOutboxDuePayload struct {
	OutboxID string `json:"outboxId"`
}

func NewCRMWebhookDeliverTask(payload CRMWebhookDeliverPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCRMWebhookDeliver, data), nil
}

func ParseCRMWebhookDeliverPayload(task *asynq.Task) (CRMWebhookDeliverPayload, error) {
	var payload CRMWebhookDeliverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CRMWebhookDeliverPayload{}, err
	}
	return payload, nil
}

func NewCRMSyncBatchTask() *asynq.Task {
	return asynq.NewTask(TaskCRMSyncBatch, nil)
}

func NewNotificationOutboxDueTask(payload NotificationOutboxDuePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationOutboxDue, data), nil
}

func ParseNotificationOutboxDuePayload(task *asynq.Task) (NotificationOutboxDuePayload, error) {
	var payload NotificationOutboxDuePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return NotificationOutboxDuePayload{}, err
	}
	return payload, nil
}
