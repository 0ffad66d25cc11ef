package sweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/m3rciful/todobot/core/logger"
	"github.com/m3rciful/todobot/internal/api"
)

// TaskSource lists the tasks the sweeper inspects.
type TaskSource interface {
	ListTasks(ctx context.Context) ([]api.Task, error)
}

// Notifier delivers one alert per overdue task.
type Notifier interface {
	NotifyOverdue(ctx context.Context, task api.Task) error
}

// Sweeper periodically scans for overdue tasks and pushes notifications.
type Sweeper struct {
	source   TaskSource
	notifier Notifier
	interval time.Duration
	now      func() time.Time
}

func New(source TaskSource, notifier Notifier, interval time.Duration) *Sweeper {
	return &Sweeper{
		source:   source,
		notifier: notifier,
		interval: interval,
		now:      time.Now,
	}
}

// Run sweeps once immediately, then on every tick until the context is done.
func (s *Sweeper) Run(ctx context.Context) error {
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep scans the full task list and alerts on each overdue task. A failed
// notification is logged and does not stop the scan.
func (s *Sweeper) sweep(ctx context.Context) {
	started := s.now()
	tasks, err := s.source.ListTasks(ctx)
	if err != nil {
		logger.Sweep.Warn("scan",
			slog.String("event", "list_failed"),
			slog.String("err", logger.Sanitize(err.Error())),
		)
		return
	}

	overdue := 0
	for _, task := range tasks {
		if !s.isOverdue(task) {
			continue
		}
		overdue++
		if err := s.notifier.NotifyOverdue(ctx, task); err != nil {
			logger.Sweep.Warn("notify",
				slog.String("event", "notify_failed"),
				slog.String("task_id", task.ID),
				slog.String("err", logger.Sanitize(err.Error())),
			)
		}
	}

	logger.Sweep.Info("scan",
		slog.String("event", "complete"),
		slog.Int("count", len(tasks)),
		slog.Int("overdue", overdue),
		slog.Duration("duration", logger.RoundMS(time.Since(started))),
	)
}

// isOverdue mirrors the service's definition but re-checks locally so a stale
// IsOverdue flag from a cached listing cannot slip through.
func (s *Sweeper) isOverdue(task api.Task) bool {
	return task.DueDate != nil && !task.Completed && task.DueDate.Before(s.now())
}
