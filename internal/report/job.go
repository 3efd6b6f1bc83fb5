package report

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/coverdesk/coverdesk/jobs"
)

// Job processes report generation requests coming off the queue.
type Job struct {
	coordinator *Coordinator
	cache       *Cache
	logger      *slog.Logger
}

// NewJob constructs a Job handler.
func NewJob(coordinator *Coordinator, cache *Cache, logger *slog.Logger) *Job {
	return &Job{coordinator: coordinator, cache: cache, logger: logger}
}

// Handle fulfils the asynq.HandlerFunc contract. Input errors skip retry:
// requeueing a request with a bad payload, a missing report, or a broken
// template cannot succeed later.
func (j *Job) Handle(ctx context.Context, task *asynq.Task) error {
	if j == nil || j.coordinator == nil {
		return errors.New("report: job not configured")
	}
	var payload jobs.ReportGeneratePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	err := j.coordinator.GenerateReportFile(ctx, GenerateParams{
		TenantID:        payload.TenantID,
		TenantAlias:     payload.TenantAlias,
		ReportID:        payload.ReportID,
		Environment:     payload.Environment,
		From:            payload.From,
		To:              payload.To,
		TimeZone:        payload.TimeZone,
		IncludeTestData: payload.IncludeTestData,
	})
	if err != nil {
		if j.logger != nil {
			j.logger.Error("report generation failed",
				slog.String("report_id", payload.ReportID.String()),
				slog.Any("error", err),
			)
		}
		switch {
		case errors.Is(err, ErrReportNotFound),
			errors.Is(err, ErrTenantMismatch),
			errors.Is(err, ErrMalformedSourceData),
			errors.Is(err, ErrTemplate),
			errors.Is(err, ErrMalformedAmount),
			errors.Is(err, ErrMalformedDate):
			return asynq.SkipRetry
		}
		return err
	}
	j.cache.Bump(ctx, payload.ReportID)
	return nil
}
