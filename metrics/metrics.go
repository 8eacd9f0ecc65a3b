package metrics

import (
	"context"
	"errors"
	"time"
)

// Event is one admission decision. It is transport-agnostic: the key
// is whatever the limiter was asked about.
type Event struct {
	Key               string
	Allowed           bool
	RetryAfterSeconds int
	At                time.Time
}

// Recorder is a sink for admission decisions. Callers treat Record as
// best-effort: a failing sink must never block or fail a request.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

type multiRecorder []Recorder

// Multi fans an event out to several recorders. Errors are joined so
// one failing sink does not hide the others.
func Multi(recorders ...Recorder) Recorder {
	return multiRecorder(recorders)
}

func (m multiRecorder) Record(ctx context.Context, ev Event) error {
	var errs []error
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Record(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
