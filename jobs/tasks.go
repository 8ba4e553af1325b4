package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDashboardWarmup pre-populates the dashboard view cache.
	TaskDashboardWarmup = "dashboard:warmup"
)

// DashboardWarmupPayload selects which time windows to pre-compute.
// An empty list means every window.
type DashboardWarmupPayload struct {
	Windows []string `json:"windows,omitempty"`
}

// NewDashboardWarmupTask constructs an Asynq task for cache warmup.
func NewDashboardWarmupTask(windows ...string) (*asynq.Task, error) {
	data, err := json.Marshal(DashboardWarmupPayload{Windows: windows})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data), nil
}
