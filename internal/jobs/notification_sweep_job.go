package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"washline/internal/core/application/usecases/commands"
	"washline/internal/core/domain/model/order"
)

// sweptStatuses are the order statuses with an open acceptance leg.
var sweptStatuses = []order.Status{order.Pending, order.Ready}

// NotificationSweepJob periodically re-dispatches acceptance notifications
// for every order stuck in a status with an open leg. Fanout is idempotent,
// so the sweep only fills the gaps left by couriers activated after the
// original dispatch or by fanout failures at order creation time.
type NotificationSweepJob struct {
	dispatcher commands.NotificationDispatcher
	uowFactory commands.OrderUoWFactory
	cron       *cron.Cron
	spec       string
	logger     *slog.Logger
}

// NewNotificationSweepJob creates the sweep job. The cron spec uses the
// six-field format with seconds, e.g. "*/30 * * * * *".
func NewNotificationSweepJob(
	dispatcher commands.NotificationDispatcher,
	uowFactory commands.OrderUoWFactory,
	spec string,
	logger *slog.Logger,
) *NotificationSweepJob {
	return &NotificationSweepJob{
		dispatcher: dispatcher,
		uowFactory: uowFactory,
		cron:       cron.New(cron.WithSeconds()),
		spec:       spec,
		logger:     logger.With("component", "notification_sweep_job"),
	}
}

// Start schedules the sweep.
func (j *NotificationSweepJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		ctx := context.Background()
		if err := j.sweep(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Notification sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification sweep job started", "spec", j.spec)
	return nil
}

// Stop stops the sweep job.
func (j *NotificationSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Notification sweep job stopped")
}

func (j *NotificationSweepJob) sweep(ctx context.Context) error {
	for _, status := range sweptStatuses {
		orders, err := j.listOrders(ctx, status)
		if err != nil {
			return err
		}

		for _, ord := range orders {
			if err := j.dispatcher.Dispatch(ctx, ord.ID()); err != nil {
				// Keep sweeping the rest; next tick retries this one.
				j.logger.WarnContext(ctx, "Sweep dispatch failed",
					"orderID", ord.ID().String(), "error", err)
			}
		}
	}

	return nil
}

func (j *NotificationSweepJob) listOrders(ctx context.Context, status order.Status) ([]*order.Order, error) {
	uow := j.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().GetAllInStatus(ctx, status)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return orders, nil
}
