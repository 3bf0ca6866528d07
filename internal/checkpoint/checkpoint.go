// Package checkpoint schedules periodic on-disk snapshots of the account
// store. Snapshots let an operator roll a node back to a known ledger
// state without replaying history.
package checkpoint

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"courier/pkg/logger"
)

// Snapshotter is the store-side hook; the name becomes the snapshot
// directory under the store path.
type Snapshotter interface {
	Checkpoint(name string) error
}

// Start launches the checkpoint scheduler. An empty cron expression
// disables it; an invalid one is a startup error.
func Start(ctx context.Context, db Snapshotter, cronExpr string) (context.CancelFunc, error) {
	if cronExpr == "" {
		logger.Info("checkpoints_disabled")
		return func() {}, nil
	}
	if !gronx.IsValid(cronExpr) {
		return nil, fmt.Errorf("invalid checkpoint cron expression: %s", cronExpr)
	}

	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, db, cronExpr)
	logger.Info("checkpoint_scheduler_started", "cron", cronExpr)
	return cancel, nil
}

// runScheduler sleeps until each cron tick and takes one snapshot per
// tick. Failures are logged and counted; the scheduler keeps going.
func runScheduler(ctx context.Context, db Snapshotter, cronExpr string) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("checkpoint_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("checkpoint_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			runOnce(db)
		case <-ctx.Done():
			logger.Info("checkpoint_scheduler_stopping")
			return
		}
	}
}

func runOnce(db Snapshotter) {
	name := fmt.Sprintf("checkpoint-%d", time.Now().UTC().Unix())
	if err := db.Checkpoint(name); err != nil {
		logger.Error("scheduled_checkpoint_failed", "name", name, "error", err)
	}
}
