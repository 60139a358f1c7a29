package processing

import (
	"context"
	"time"
)

// WorkerProcessedBy labels analyses produced by the background loop.
const WorkerProcessedBy = "worker"

// StartLoop runs scheduled batch passes until ctx is cancelled. Each tick
// processes at most one batch; a pass that fails is logged and the loop keeps
// going.
func (r *Runner) StartLoop(ctx context.Context) {
	interval := time.Duration(r.Cfg.ResumeProcessIntervalSeconds) * time.Second
	r.Log.Infow("resume worker loop started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Log.Info("resume worker loop stopped")
			return
		case <-ticker.C:
			attempted, err := r.RunOnce(ctx, WorkerProcessedBy, nil)
			if err != nil {
				r.Log.Errorw("scheduled batch pass failed", "error", err)
				continue
			}
			if attempted > 0 {
				r.Log.Infow("scheduled batch pass finished", "attempted", attempted)
			}
		}
	}
}
