package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closerhq/agency-dashboard/internal/core/domain"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []domain.StageEvent
	fail   bool
}

func (r *recordingRepo) InsertStageEvent(_ context.Context, e *domain.StageEvent) error {
	if r.fail {
		return errors.New("mongo down")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return nil
}

func (r *recordingRepo) ListStageEvents(context.Context, string) ([]domain.StageEvent, error) {
	return nil, nil
}

func (r *recordingRepo) snapshot() []domain.StageEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.StageEvent(nil), r.events...)
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(8, &recordingRepo{}, zerolog.Nop())
	for i := 0; i < 100; i++ {
		id := fmt.Sprintf("call-%d", i)
		idx := d.shardIndex(id)
		assert.Equal(t, idx, d.shardIndex(id))
		assert.True(t, idx >= 0 && idx < 8)
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recordingRepo{}, zerolog.Nop())
	assert.Len(t, d.workers, defaultWorkers)
}

func TestDispatcher_PreservesPerCallOrder(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	stages := []domain.Stage{domain.StageInProgress, domain.StageCompleted, domain.StageClosedWon}
	for _, callID := range []string{"a", "b", "c"} {
		for i, s := range stages {
			d.Publish(domain.StageEvent{ID: fmt.Sprintf("%s-%d", callID, i), CallID: callID, To: s})
		}
	}

	require.Eventually(t, func() bool { return len(repo.snapshot()) == 9 }, time.Second, 5*time.Millisecond)
	cancel()
	d.Wait()

	byCall := map[string][]domain.Stage{}
	for _, e := range repo.snapshot() {
		byCall[e.CallID] = append(byCall[e.CallID], e.To)
	}
	for callID, got := range byCall {
		assert.Equal(t, stages, got, "call %s out of order", callID)
	}
}

func TestDispatcher_DrainsOnShutdown(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(1, repo, zerolog.Nop())
	for i := 0; i < 5; i++ {
		d.Publish(domain.StageEvent{ID: fmt.Sprint(i), CallID: "a"})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	assert.Len(t, repo.snapshot(), 5)
}

func TestDispatcher_WriteFailureIsNotFatal(t *testing.T) {
	repo := &recordingRepo{fail: true}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.Publish(domain.StageEvent{ID: "1", CallID: "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	assert.Empty(t, repo.snapshot())
}
