package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPruner struct {
	calls int
}

func (p *countingPruner) PruneEmpty(ctx context.Context, olderThan time.Duration) (int, error) {
	p.calls++
	return 2, nil
}

func TestReaper_RunNow(t *testing.T) {
	pruner := &countingPruner{}
	r := NewReaper(pruner, ReaperConfig{Interval: time.Hour, Threshold: time.Hour})

	pruned, err := r.RunNow()
	require.NoError(t, err)
	assert.Equal(t, 2, pruned)
	assert.Equal(t, 1, pruner.calls)
}

func TestReaper_StopIsIdempotent(t *testing.T) {
	r := NewReaper(&countingPruner{}, ReaperConfig{Interval: time.Hour, Threshold: time.Hour})
	r.Start()
	r.Stop()
	r.Stop()
}
