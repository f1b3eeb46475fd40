package river

import (
	"context"
	"log/slog"

	"github.com/riverqueue/river"
)

// EventWorker processes schedule event jobs from the River queue.
// For now it logs the event; future versions will dispatch to the
// booking service and to notification fan-out.
type EventWorker struct {
	river.WorkerDefaults[EventJobArgs]
}

// Work processes a single event job.
func (w *EventWorker) Work(ctx context.Context, job *river.Job[EventJobArgs]) error {
	slog.InfoContext(ctx, "processing schedule event",
		"topic", job.Args.Topic,
		"slot_id", job.Args.SlotID,
		"tutor_id", job.Args.TutorID,
		"job_id", job.ID,
		"attempt", job.Attempt,
	)
	return nil
}
