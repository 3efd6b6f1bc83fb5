// Package jobs holds the asynq task definitions and worker plumbing shared
// by the web process (enqueue) and the worker process (handle).
package jobs

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskReportGenerate is the task type for report file generation.
	TaskReportGenerate = "report:generate"
)

// ReportGeneratePayload describes one report generation request.
type ReportGeneratePayload struct {
	TenantID        uuid.UUID `json:"tenantId"`
	TenantAlias     string    `json:"tenantAlias"`
	ReportID        uuid.UUID `json:"reportId"`
	Environment     string    `json:"environment"`
	From            time.Time `json:"from"`
	To              time.Time `json:"to"`
	TimeZone        string    `json:"timeZone"`
	IncludeTestData bool      `json:"includeTestData"`
}

// NewReportGenerateTask constructs an asynq task for one generation request.
func NewReportGenerateTask(payload ReportGeneratePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportGenerate, data), nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueReportGenerate enqueues a report generation task.
func (c *Client) EnqueueReportGenerate(ctx context.Context, payload ReportGeneratePayload) (*asynq.TaskInfo, error) {
	task, err := NewReportGenerateTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
