package store

import (
	"context"

	"semicloud-gen-bot/internal/model"
)

// MultiGenLog fans a record out to every sink in order. The first failure is
// returned; losing an audit entry is a data-integrity concern, so a sink
// error is never swallowed.
type MultiGenLog struct {
	sinks []GenLog
}

// NewMultiGenLog combines several audit sinks into one.
func NewMultiGenLog(sinks ...GenLog) *MultiGenLog {
	return &MultiGenLog{sinks: sinks}
}

// Record writes to every sink.
func (l *MultiGenLog) Record(ctx context.Context, rec model.GenRecord) error {
	for _, sink := range l.sinks {
		if err := sink.Record(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

// Ensure MultiGenLog implements GenLog
var _ GenLog = (*MultiGenLog)(nil)
