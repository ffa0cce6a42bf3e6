package live

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/example/schedule-dashboard/internal/application"
	"github.com/example/schedule-dashboard/internal/schedule"
)

// DefaultNextItemSpec refreshes the next item once a minute.
const DefaultNextItemSpec = "@every 1m"

const jobTimeout = 15 * time.Second

const noticeNextItemFailed = "Não foi possível atualizar o próximo item da agenda."

// NextItemSource yields today's next upcoming item.
type NextItemSource interface {
	NextItem(ctx context.Context) (schedule.Item, bool, error)
}

// NextItemJob periodically pushes the next upcoming item to live clients.
type NextItemJob struct {
	cron        *cron.Cron
	spec        string
	source      NextItemSource
	broadcaster *Broadcaster
	logger      *slog.Logger
}

// NewNextItemJob builds a job that runs on spec, a standard cron expression
// or a descriptor such as "@every 1m". An empty spec uses
// DefaultNextItemSpec.
func NewNextItemJob(source NextItemSource, broadcaster *Broadcaster, spec string, logger *slog.Logger) *NextItemJob {
	if spec == "" {
		spec = DefaultNextItemSpec
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NextItemJob{
		cron:        cron.New(),
		spec:        spec,
		source:      source,
		broadcaster: broadcaster,
		logger:      logger.With("component", "next_item_job"),
	}
}

// Start schedules the job and starts the cron runner.
func (j *NextItemJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		_ = j.RunOnce(ctx)
	}); err != nil {
		return fmt.Errorf("live: schedule next item job %q: %w", j.spec, err)
	}
	j.cron.Start()
	j.logger.Info("next item job started", "spec", j.spec)
	return nil
}

// Stop halts the runner and waits for a running tick to finish or ctx to end.
func (j *NextItemJob) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
	j.logger.Info("next item job stopped")
}

// RunOnce computes the next item and broadcasts it. When the stores cannot
// be read clients receive an error notice instead.
func (j *NextItemJob) RunOnce(ctx context.Context) error {
	item, found, err := j.source.NextItem(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "failed to compute next item", "error", err, "error_kind", application.ErrorKind(err))
		j.broadcaster.Notice(ctx, application.Notice{Severity: application.SeverityError, Message: noticeNextItemFailed})
		return err
	}
	j.broadcaster.NextItem(ctx, item, found)
	return nil
}
