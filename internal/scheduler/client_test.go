package scheduler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type schedulerConfig struct {
	redisURL string
	queue    string
}

func (c schedulerConfig) GetRedisURL() string       { return c.redisURL }
func (c schedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c schedulerConfig) GetAsynqQueueName() string { return c.queue }
func (c schedulerConfig) GetAsynqConcurrency() int  { return 1 }
func (c schedulerConfig) GetCRMSyncCron() string    { return "" }

func TestNewClientRequiresRedis(t *testing.T) {
	_, err := NewClient(schedulerConfig{})
	require.Error(t, err)
}

func TestEnqueueCRMWebhook(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(schedulerConfig{redisURL: "redis://" + mr.Addr(), queue: "crm"})
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	integrationID := uuid.New()
	leadID := uuid.New()
	require.NoError(t, client.EnqueueCRMWebhook(context.Background(), integrationID, leadID, "lead.created"))

	pending, err := mr.List("asynq:{crm}:pending")
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestNilClientRefusesToEnqueue(t *testing.T) {
	var client *Client
	require.Error(t, client.EnqueueCRMWebhook(context.Background(), uuid.New(), uuid.New(), "lead.created"))
	require.NoError(t, client.Close())
}

func TestCRMWebhookPayloadRoundTrip(t *testing.T) {
	task, err := NewCRMWebhookDeliverTask(CRMWebhookDeliverPayload{IntegrationID: "i", LeadID: "l", Event: "lead.created"})
	require.NoError(t, err)
	assert.Equal(t, TaskCRMWebhookDeliver, task.Type())

	var raw map[string]string
	require.NoError(t, json.Unmarshal(task.Payload(), &raw))
	assert.Equal(t, "i", raw["integrationId"])

	parsed, err := ParseCRMWebhookDeliverPayload(asynq.NewTask(TaskCRMWebhookDeliver, []byte(`{"integrationId":"a","leadId":"b","event":"c"}`)))
	require.NoError(t, err)
	assert.Equal(t, CRMWebhookDeliverPayload{IntegrationID: "a", LeadID: "b", Event: "c"}, parsed)
}

func TestQueueNameDefault(t *testing.T) {
	assert.Equal(t, "default", queueName(schedulerConfig{}))
	assert.Equal(t, "crm", queueName(schedulerConfig{queue: "crm"}))
}

func TestRedisClientOptParsesURL(t *testing.T) {
	opt, err := redisClientOpt("rediss://user:pw@cache.internal:6380/2", true)
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opt.Addr)
	assert.Equal(t, "pw", opt.Password)
	assert.Equal(t, 2, opt.DB)
	require.NotNil(t, opt.TLSConfig)
	assert.True(t, opt.TLSConfig.InsecureSkipVerify)
}
