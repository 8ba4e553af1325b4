package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/feastline/feastline-admin/internal/dashboard"
	jobmetrics "github.com/feastline/feastline-admin/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// DashboardWarmupJob pre-populates the dashboard view cache so the first
// admin page load after an idle period does not pay the aggregation cost.
type DashboardWarmupJob struct {
	Dashboard *dashboard.Service
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(dashboardSvc *dashboard.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *DashboardWarmupJob {
	return &DashboardWarmupJob{
		Dashboard: dashboardSvc,
		Logger:    logger,
		Metrics:   metrics,
	}
}

// Handle processes dashboard warmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Dashboard == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	windows, err := resolveWindows(payload.Windows)
	if err != nil {
		// A bad selector in the payload will never succeed on retry.
		j.logger().Error("resolve warmup windows", slog.Any("error", err))
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskDashboardWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	logger.Info("starting dashboard warmup", slog.Int("windows", len(windows)))

	started := time.Now()
	for _, window := range windows {
		if err := j.warmWindow(ctx, window); err != nil {
			resultErr = err
			logger.Error("warm window", slog.String("window", string(window)), slog.Any("error", err))
			return resultErr
		}
	}

	logger.Info("completed dashboard warmup", slog.Duration("duration", time.Since(started)))
	return resultErr
}

func (j *DashboardWarmupJob) warmWindow(ctx context.Context, window dashboard.Window) error {
	// Bound each window so one slow pull cannot stall the whole job.
	windowCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	_, err := j.Dashboard.Load(windowCtx, window)
	return err
}

func resolveWindows(raw []string) ([]dashboard.Window, error) {
	if len(raw) == 0 {
		return dashboard.Windows, nil
	}
	windows := make([]dashboard.Window, 0, len(raw))
	for _, token := range raw {
		window, err := dashboard.ParseWindow(token)
		if err != nil {
			return nil, err
		}
		windows = append(windows, window)
	}
	return windows, nil
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDashboardWarmup))
	}
	return slog.Default().With(slog.String("job", TaskDashboardWarmup))
}

func (j *DashboardWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
