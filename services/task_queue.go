package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kendall-kelly/household-services-api/utils"
	"go.uber.org/zap"
)

// TaskQueue runs export tasks in the background
type TaskQueue interface {
	// EnqueueExport schedules an export for the professional and returns the task id
	EnqueueExport(ctx context.Context, professionalID uint) (string, error)
}

var taskQueueInstance TaskQueue

// GetTaskQueue returns the configured task queue
func GetTaskQueue() TaskQueue {
	return taskQueueInstance
}

// SetTaskQueue sets the task queue (asynq in production, inline without Redis, mocks in tests)
func SetTaskQueue(queue TaskQueue) {
	taskQueueInstance = queue
}

// InlineQueue runs exports on goroutines in this process
type InlineQueue struct {
	exporter *ExportService
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewInlineQueue creates an in-process queue. Each export is bounded by timeout.
func NewInlineQueue(exporter *ExportService, timeout time.Duration) *InlineQueue {
	return &InlineQueue{exporter: exporter, timeout: timeout}
}

// EnqueueExport starts the export and returns immediately
func (q *InlineQueue) EnqueueExport(ctx context.Context, professionalID uint) (string, error) {
	taskID := uuid.NewString()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()

		// The export outlives the HTTP request that queued it
		taskCtx, cancel := context.WithTimeout(context.Background(), q.timeout)
		defer cancel()

		if _, err := q.exporter.Export(taskCtx, professionalID); err != nil {
			utils.GetLogger().Error("export task failed",
				zap.String("task_id", taskID),
				zap.Uint("professional_id", professionalID),
				zap.Error(err))
		}
	}()
	return taskID, nil
}

// Wait blocks until every queued export has finished
func (q *InlineQueue) Wait() {
	q.wg.Wait()
}
