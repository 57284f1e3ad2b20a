package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/abdussamietahir2006-stack/remotage-backend/internal/config"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/logger"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/metrics"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/services"
)

// TaskType defines the type of a background task.
const (
	TypeLeadExpire = "lead:expire"
)

// QueueMaintenance holds periodic housekeeping tasks.
const QueueMaintenance = "maintenance"

func redisClientOpt(rdb *redis.Client) asynq.RedisClientOpt {
	opts := rdb.Options()
	return asynq.RedisClientOpt{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}
}

// NewLeadExpireTask builds the sweep task. It carries no payload; the cutoff is
// computed when the task runs.
func NewLeadExpireTask() *asynq.Task {
	return asynq.NewTask(TypeLeadExpire, nil, asynq.Queue(QueueMaintenance), asynq.MaxRetry(3))
}

// --- Task Server (Processing tasks) ---

// TaskProcessor handles the processing of tasks.
type TaskProcessor struct {
	cfg         *config.Config
	leadService services.ILeadService
	metrics     *metrics.Metrics
}

func NewTaskProcessor(cfg *config.Config, leadService services.ILeadService, m *metrics.Metrics) *TaskProcessor {
	return &TaskProcessor{
		cfg:         cfg,
		leadService: leadService,
		metrics:     m,
	}
}

// ServeMux registers the background task handlers.
func (p *TaskProcessor) ServeMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeLeadExpire, p.HandleLeadExpireTask)
	return mux
}

// SetupServer configures and returns an Asynq server instance. The caller runs it
// with the processor's ServeMux.
func SetupServer(rdb *redis.Client) *asynq.Server {
	log := logger.GetLogger()
	return asynq.NewServer(
		redisClientOpt(rdb),
		asynq.Config{
			Concurrency: 1,
			Queues: map[string]int{
				QueueMaintenance: 1,
			},
			Logger: log,
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Errorw("Background task failed", "type", task.Type(), "error", err)
			}),
		},
	)
}

// SetupScheduler returns a scheduler that enqueues the lead sweep on cronspec.
func SetupScheduler(rdb *redis.Client, cronspec string) (*asynq.Scheduler, error) {
	scheduler := asynq.NewScheduler(redisClientOpt(rdb), &asynq.SchedulerOpts{
		Logger:   logger.GetLogger(),
		Location: time.UTC,
	})
	if _, err := scheduler.Register(cronspec, NewLeadExpireTask()); err != nil {
		return nil, fmt.Errorf("failed to schedule %s with %q: %w", TypeLeadExpire, cronspec, err)
	}
	return scheduler, nil
}

// --- Task Handlers ---

// ExpireLeads deletes every lead older than the configured TTL and returns how
// many were removed. Leads the TTL index already reaped are simply not counted.
func (p *TaskProcessor) ExpireLeads(ctx context.Context) (int64, error) {
	log := logger.GetLogger()
	cutoff := time.Now().UTC().Add(-p.cfg.LeadTTL)

	deleted, err := p.leadService.DeleteExpired(ctx, cutoff)
	if err != nil {
		log.Errorw("Lead expiry sweep failed", "cutoff", cutoff, "error", err)
		return 0, err
	}
	if deleted > 0 {
		p.metrics.LeadsExpired.Add(float64(deleted))
	}
	log.Infow("Lead expiry sweep finished", "cutoff", cutoff, "deleted", deleted)
	return deleted, nil
}

// HandleLeadExpireTask processes the periodic lead sweep. Storage errors are
// returned so asynq retries the task.
func (p *TaskProcessor) HandleLeadExpireTask(ctx context.Context, t *asynq.Task) error {
	_, err := p.ExpireLeads(ctx)
	return err
}
