package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/amuzant/Crewmates/models"
	"github.com/amuzant/Crewmates/repositories"
	"github.com/amuzant/Crewmates/services"
)

const (
	defaultPollInterval = 5 * time.Second
	defaultBatchSize    = 20
	defaultMaxAttempts  = 5
	baseBackoff         = 30 * time.Second
)

// Dispatcher polls pending outbox tasks and executes them against the award
// service. Tasks are claimed with row locks, so multiple instances can run
// side by side without double execution.
type Dispatcher struct {
	repo         repositories.OutboxRepository
	awards       services.AwardService
	logger       *slog.Logger
	pollInterval time.Duration
	batchSize    int
	maxAttempts  int
	now          func() time.Time
}

func NewDispatcher(repo repositories.OutboxRepository, awards services.AwardService, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		repo:         repo,
		awards:       awards,
		logger:       logger,
		pollInterval: defaultPollInterval,
		batchSize:    defaultBatchSize,
		maxAttempts:  defaultMaxAttempts,
		now:          time.Now,
	}
}

// Run polls until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Info("outbox dispatcher started", slog.Duration("poll_interval", d.pollInterval))
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("outbox dispatcher stopped")
			return
		case <-ticker.C:
			if err := d.RunOnce(ctx); err != nil {
				d.logger.Error("outbox poll failed", slog.Any("error", err))
			}
		}
	}
}

// RunOnce claims one batch of due tasks and processes it.
func (d *Dispatcher) RunOnce(ctx context.Context) error {
	tasks, err := d.repo.ClaimDue(ctx, d.now(), d.batchSize)
	if err != nil {
		return fmt.Errorf("failed to claim outbox tasks: %w", err)
	}

	for _, task := range tasks {
		d.process(ctx, task)
	}
	return nil
}

func (d *Dispatcher) process(ctx context.Context, task models.OutboxTask) {
	err := d.execute(ctx, task)
	if err == nil {
		if markErr := d.repo.MarkDone(ctx, task.ID); markErr != nil {
			d.logger.Error("failed to mark outbox task done",
				slog.Int64("task_id", task.ID), slog.Any("error", markErr))
		}
		return
	}

	// ClaimDue already incremented attempts for this run.
	if task.Attempts >= d.maxAttempts {
		d.logger.Error("outbox task exhausted attempts",
			slog.Int64("task_id", task.ID),
			slog.String("kind", string(task.Kind)),
			slog.Any("error", err))
		if markErr := d.repo.MarkFailed(ctx, task.ID, err.Error()); markErr != nil {
			d.logger.Error("failed to mark outbox task failed",
				slog.Int64("task_id", task.ID), slog.Any("error", markErr))
		}
		return
	}

	next := d.now().Add(Backoff(task.Attempts))
	d.logger.Warn("outbox task failed, rescheduling",
		slog.Int64("task_id", task.ID),
		slog.String("kind", string(task.Kind)),
		slog.Int("attempts", task.Attempts),
		slog.Time("next_attempt_at", next),
		slog.Any("error", err))
	if markErr := d.repo.Reschedule(ctx, task.ID, next, err.Error()); markErr != nil {
		d.logger.Error("failed to reschedule outbox task",
			slog.Int64("task_id", task.ID), slog.Any("error", markErr))
	}
}

func (d *Dispatcher) execute(ctx context.Context, task models.OutboxTask) error {
	switch task.Kind {
	case models.TaskAwardBadges:
		var payload models.AwardBadgesPayload
		if err := json.Unmarshal(task.Payload, &payload); err != nil {
			return fmt.Errorf("malformed payload: %w", err)
		}
		return d.awards.GrantProjectBadges(ctx, payload.ProjectID, payload.BadgeType)
	case models.TaskAwardPrize:
		var payload models.AwardPrizePayload
		if err := json.Unmarshal(task.Payload, &payload); err != nil {
			return fmt.Errorf("malformed payload: %w", err)
		}
		return d.awards.AwardSprintPrize(ctx, payload.ProjectID, payload.SprintID)
	default:
		return fmt.Errorf("unknown task kind %q", task.Kind)
	}
}

// Backoff doubles per attempt starting from baseBackoff: 30s, 1m, 2m, 4m, ...
func Backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	return baseBackoff << (attempts - 1)
}
