package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/kendall-kelly/household-services-api/config"
	"github.com/kendall-kelly/household-services-api/services"
	"github.com/kendall-kelly/household-services-api/utils"
	"go.uber.org/zap"
)

// TypeExportClosedRequests is the asynq task type for professional exports
const TypeExportClosedRequests = "export:closed_requests"

// ExportPayload is the asynq payload of an export task
type ExportPayload struct {
	ProfessionalID uint `json:"professional_id"`
}

func redisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// AsynqQueue queues exports on Redis for the export worker
type AsynqQueue struct {
	client  *asynq.Client
	timeout time.Duration
}

// NewAsynqQueue creates a queue on the configured Redis
func NewAsynqQueue(cfg *config.Config, timeout time.Duration) *AsynqQueue {
	return &AsynqQueue{client: asynq.NewClient(redisOpt(cfg)), timeout: timeout}
}

// NewExportTask builds the export task for a professional
func NewExportTask(professionalID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(ExportPayload{ProfessionalID: professionalID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeExportClosedRequests, payload), nil
}

// EnqueueExport queues a one-shot export task
func (q *AsynqQueue) EnqueueExport(ctx context.Context, professionalID uint) (string, error) {
	task, err := NewExportTask(professionalID)
	if err != nil {
		return "", fmt.Errorf("failed to build export task: %w", err)
	}
	info, err := q.client.EnqueueContext(ctx, task, asynq.MaxRetry(0), asynq.Timeout(q.timeout))
	if err != nil {
		return "", fmt.Errorf("failed to enqueue export: %w", err)
	}
	return info.ID, nil
}

// Close closes the Redis connection
func (q *AsynqQueue) Close() error {
	return q.client.Close()
}

// HandleExportTask runs an export task. Missing data is logged and not retried.
func HandleExportTask(exporter *services.ExportService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p ExportPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			return fmt.Errorf("invalid export payload: %v: %w", err, asynq.SkipRetry)
		}

		result, err := exporter.Export(ctx, p.ProfessionalID)
		if services.IsKind(err, services.KindNoData) {
			utils.GetLogger().Info("nothing to export", zap.Uint("professional_id", p.ProfessionalID))
			return nil
		}
		if err != nil {
			return fmt.Errorf("export for professional %d failed: %v: %w", p.ProfessionalID, err, asynq.SkipRetry)
		}

		utils.GetLogger().Info("export task finished",
			zap.Uint("professional_id", p.ProfessionalID),
			zap.String("location", result.Location))
		return nil
	}
}

// ExportWorker processes export tasks from Redis
type ExportWorker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewExportWorker creates the worker for export tasks
func NewExportWorker(cfg *config.Config, exporter *services.ExportService) *ExportWorker {
	server := asynq.NewServer(redisOpt(cfg), asynq.Config{
		Concurrency: 2,
		Queues: map[string]int{
			"default": 1,
		},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeExportClosedRequests, HandleExportTask(exporter))
	return &ExportWorker{server: server, mux: mux}
}

// Start starts processing in background goroutines
func (w *ExportWorker) Start() error {
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("failed to start export worker: %w", err)
	}
	utils.GetLogger().Info("export worker started")
	return nil
}

// Shutdown stops the worker after in-flight tasks finish
func (w *ExportWorker) Shutdown() {
	w.server.Shutdown()
}
