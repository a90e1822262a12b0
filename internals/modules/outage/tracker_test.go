package outage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"powermon/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)

func samples(ids []uuid.UUID, offline ...int) []Sample {
	down := make(map[int]bool, len(offline))
	for _, i := range offline {
		down[i] = true
	}
	out := make([]Sample, len(ids))
	for i, id := range ids {
		out[i] = Sample{CheckpointID: id, Reachable: !down[i]}
	}
	return out
}

func fleet(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

type recordingNotifier struct {
	mu   sync.Mutex
	seen []Transition
}

func (n *recordingNotifier) Notify(ctx context.Context, t Transition) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.seen = append(n.seen, t)
}

func newTracker(repo Persister, threshold float64, n Notifier) *Tracker {
	log := zerolog.Nop()
	return NewTracker(repo, threshold, n, &log)
}

func TestEvaluate_ThresholdBoundaries(t *testing.T) {
	ctx := context.Background()

	t.Run("half offline opens", func(t *testing.T) {
		tr := newTracker(NewMemoryRepository(), DefaultThreshold, nil)
		res, err := tr.Evaluate(ctx, samples(fleet(2), 0), t0)
		require.NoError(t, err)
		assert.Equal(t, TransitionOpened, res.Kind)
		_, open := tr.Current()
		assert.True(t, open)
	})

	t.Run("two of five stays closed", func(t *testing.T) {
		tr := newTracker(NewMemoryRepository(), DefaultThreshold, nil)
		res, err := tr.Evaluate(ctx, samples(fleet(5), 0, 1), t0)
		require.NoError(t, err)
		assert.False(t, res.Happened())
		_, open := tr.Current()
		assert.False(t, open)
	})

	t.Run("no samples is a no-op", func(t *testing.T) {
		repo := NewMemoryRepository()
		tr := newTracker(repo, DefaultThreshold, nil)
		res, err := tr.Evaluate(ctx, nil, t0)
		require.NoError(t, err)
		assert.False(t, res.Happened())
		o, err := repo.GetOngoing(ctx)
		require.NoError(t, err)
		assert.Nil(t, o)
	})

	t.Run("custom threshold", func(t *testing.T) {
		tr := newTracker(NewMemoryRepository(), 0.75, nil)
		res, err := tr.Evaluate(ctx, samples(fleet(4), 0, 1), t0)
		require.NoError(t, err)
		assert.False(t, res.Happened())

		res, err = tr.Evaluate(ctx, samples(fleet(4), 0, 1, 2), t0)
		require.NoError(t, err)
		assert.Equal(t, TransitionOpened, res.Kind)
	})
}

func TestNewTracker_InvalidThresholdFallsBack(t *testing.T) {
	assert.Equal(t, DefaultThreshold, newTracker(NewMemoryRepository(), 0, nil).Threshold())
	assert.Equal(t, DefaultThreshold, newTracker(NewMemoryRepository(), 1.2, nil).Threshold())
	assert.Equal(t, 1.0, newTracker(NewMemoryRepository(), 1, nil).Threshold())
}

func TestEvaluate_SingleOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	tr := newTracker(repo, DefaultThreshold, nil)
	ids := fleet(4)

	first, err := tr.Evaluate(ctx, samples(ids, 0, 1, 2), t0)
	require.NoError(t, err)
	require.Equal(t, TransitionOpened, first.Kind)

	for i := 1; i <= 3; i++ {
		res, err := tr.Evaluate(ctx, samples(ids, 0, 1, 2, 3), t0.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		assert.False(t, res.Happened())
	}

	list, total, err := repo.List(ctx, ListFilter{Since: t0.Add(-time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.True(t, list[0].Ongoing)

	cur, ok := tr.Current()
	require.True(t, ok)
	assert.Equal(t, first.Outage.ID, cur.ID)
	assert.Equal(t, t0, cur.StartedAt)
}

func TestEvaluate_AffectedSetFrozenAtOnset(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(NewMemoryRepository(), DefaultThreshold, nil)
	ids := fleet(4) // A B C D

	_, err := tr.Evaluate(ctx, samples(ids, 0, 1), t0)
	require.NoError(t, err)
	_, err = tr.Evaluate(ctx, samples(ids, 0, 1), t0.Add(time.Minute))
	require.NoError(t, err)
	_, err = tr.Evaluate(ctx, samples(ids, 0, 1, 2), t0.Add(2*time.Minute))
	require.NoError(t, err)

	cur, ok := tr.Current()
	require.True(t, ok)
	assert.ElementsMatch(t, []uuid.UUID{ids[0], ids[1]}, cur.Affected)

	// the copy handed out must not alias tracker state
	cur.Affected[0] = uuid.Nil
	again, _ := tr.Current()
	assert.NotEqual(t, uuid.Nil, again.Affected[0])
}

func TestEvaluate_CloseRoundsDuration(t *testing.T) {
	cases := []struct {
		elapsed time.Duration
		want    int64
	}{
		{90*time.Second + 400*time.Millisecond, 90},
		{90*time.Second + 600*time.Millisecond, 91},
		{2 * time.Hour, 7200},
	}

	for _, tc := range cases {
		ctx := context.Background()
		repo := NewMemoryRepository()
		tr := newTracker(repo, DefaultThreshold, nil)
		ids := fleet(2)

		_, err := tr.Evaluate(ctx, samples(ids, 0, 1), t0)
		require.NoError(t, err)

		res, err := tr.Evaluate(ctx, samples(ids), t0.Add(tc.elapsed))
		require.NoError(t, err)
		require.Equal(t, TransitionClosed, res.Kind)
		require.NotNil(t, res.Outage.DurationSeconds)
		assert.Equal(t, tc.want, *res.Outage.DurationSeconds)
		assert.Equal(t, t0.Add(tc.elapsed), *res.Outage.EndedAt)
		assert.False(t, res.Outage.Ongoing)

		_, open := tr.Current()
		assert.False(t, open)
		ongoing, err := repo.GetOngoing(ctx)
		require.NoError(t, err)
		assert.Nil(t, ongoing)
	}
}

type flakyRepo struct {
	*MemoryRepository
	failCreate int
	failClose  int
}

func (f *flakyRepo) Create(ctx context.Context, o Outage) error {
	if f.failCreate > 0 {
		f.failCreate--
		return errors.New("write timeout")
	}
	return f.MemoryRepository.Create(ctx, o)
}

func (f *flakyRepo) Close(ctx context.Context, o Outage) error {
	if f.failClose > 0 {
		f.failClose--
		return errors.New("write timeout")
	}
	return f.MemoryRepository.Close(ctx, o)
}

func TestEvaluate_FailedWriteLeavesStateForRetry(t *testing.T) {
	ctx := context.Background()
	repo := &flakyRepo{MemoryRepository: NewMemoryRepository(), failCreate: 1, failClose: 1}
	n := &recordingNotifier{}
	tr := newTracker(repo, DefaultThreshold, n)
	ids := fleet(2)

	_, err := tr.Evaluate(ctx, samples(ids, 0, 1), t0)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.Persistence))
	_, open := tr.Current()
	assert.False(t, open)

	res, err := tr.Evaluate(ctx, samples(ids, 0, 1), t0.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, TransitionOpened, res.Kind)
	assert.Equal(t, t0.Add(time.Minute), res.Outage.StartedAt)

	_, err = tr.Evaluate(ctx, samples(ids), t0.Add(2*time.Minute))
	require.Error(t, err)
	_, open = tr.Current()
	assert.True(t, open)

	res, err = tr.Evaluate(ctx, samples(ids), t0.Add(3*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, TransitionClosed, res.Kind)
	assert.Equal(t, int64(120), *res.Outage.DurationSeconds)

	require.Len(t, n.seen, 2)
	assert.Equal(t, TransitionOpened, n.seen[0].Kind)
	assert.Equal(t, TransitionClosed, n.seen[1].Kind)
}

func TestRestore_PicksUpOngoingOutage(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	ids := fleet(2)

	first := newTracker(repo, DefaultThreshold, nil)
	opened, err := first.Evaluate(ctx, samples(ids, 0, 1), t0)
	require.NoError(t, err)

	second := newTracker(repo, DefaultThreshold, nil)
	require.NoError(t, second.Restore(ctx))

	cur, ok := second.Current()
	require.True(t, ok)
	assert.Equal(t, opened.Outage.ID, cur.ID)

	res, err := second.Evaluate(ctx, samples(ids, 0, 1), t0.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, res.Happened())
}

func TestCurrent_SafeUnderConcurrentEvaluate(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(NewMemoryRepository(), DefaultThreshold, nil)
	ids := fleet(2)

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					if o, ok := tr.Current(); ok {
						_ = len(o.Affected)
					}
				}
			}
		}()
	}

	for i := 0; i < 50; i++ {
		offline := []int{}
		if i%2 == 0 {
			offline = []int{0, 1}
		}
		_, err := tr.Evaluate(ctx, samples(ids, offline...), t0.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}
	close(stop)
	wg.Wait()
}

func TestEvaluate_ConflictingReplicaReloadsInsteadOfFailing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	ids := fleet(2)

	a := newTracker(repo, DefaultThreshold, nil)
	bn := &recordingNotifier{}
	b := newTracker(repo, DefaultThreshold, bn)

	opened, err := a.Evaluate(ctx, samples(ids, 0, 1), t0)
	require.NoError(t, err)
	require.Equal(t, TransitionOpened, opened.Kind)

	// b never saw the open; its Create is refused and it adopts a's outage
	res, err := b.Evaluate(ctx, samples(ids, 0, 1), t0.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, res.Happened())
	cur, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, opened.Outage.ID, cur.ID)

	res, err = b.Evaluate(ctx, samples(ids), t0.Add(2*time.Minute))
	require.NoError(t, err)
	require.Equal(t, TransitionClosed, res.Kind)
	assert.Equal(t, opened.Outage.ID, res.Outage.ID)
	assert.Equal(t, int64(120), *res.Outage.DurationSeconds)

	// a still holds the closed outage; its Close is refused and it catches up
	res, err = a.Evaluate(ctx, samples(ids), t0.Add(3*time.Minute))
	require.NoError(t, err)
	assert.False(t, res.Happened())
	_, ok = a.Current()
	assert.False(t, ok)

	ongoing, err := repo.GetOngoing(ctx)
	require.NoError(t, err)
	assert.Nil(t, ongoing)
	require.Len(t, bn.seen, 1)
	assert.Equal(t, TransitionClosed, bn.seen[0].Kind)
}

type countingRepo struct {
	*MemoryRepository
	mu      sync.Mutex
	creates int
}

func (c *countingRepo) Create(ctx context.Context, o Outage) error {
	c.mu.Lock()
	c.creates++
	c.mu.Unlock()
	return c.MemoryRepository.Create(ctx, o)
}

func TestEvaluate_SharedTrackerClosesOutageOpenedElsewhere(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryRepository()
	ids := fleet(2)

	a := newTracker(mem, DefaultThreshold, nil)
	opened, err := a.Evaluate(ctx, samples(ids, 0, 1), t0)
	require.NoError(t, err)

	repo := &countingRepo{MemoryRepository: mem}
	b := newTracker(repo, DefaultThreshold, nil)
	b.SetShared(true)

	res, err := b.Evaluate(ctx, samples(ids), t0.Add(5*time.Minute))
	require.NoError(t, err)
	require.Equal(t, TransitionClosed, res.Kind)
	assert.Equal(t, opened.Outage.ID, res.Outage.ID)
	assert.Zero(t, repo.creates)

	ongoing, err := mem.GetOngoing(ctx)
	require.NoError(t, err)
	assert.Nil(t, ongoing)
}

func TestEvaluate_UnsharedTrackerMissesOutageOpenedElsewhere(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	ids := fleet(2)

	a := newTracker(repo, DefaultThreshold, nil)
	_, err := a.Evaluate(ctx, samples(ids, 0, 1), t0)
	require.NoError(t, err)

	b := newTracker(repo, DefaultThreshold, nil)
	res, err := b.Evaluate(ctx, samples(ids), t0.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, res.Happened())

	ongoing, err := repo.GetOngoing(ctx)
	require.NoError(t, err)
	assert.NotNil(t, ongoing)
}

type blockingRepo struct {
	*MemoryRepository
	entered chan struct{}
	release chan struct{}
}

func (b *blockingRepo) Create(ctx context.Context, o Outage) error {
	close(b.entered)
	<-b.release
	return b.MemoryRepository.Create(ctx, o)
}

func TestCurrent_NotBlockedBySlowWrite(t *testing.T) {
	ctx := context.Background()
	repo := &blockingRepo{
		MemoryRepository: NewMemoryRepository(),
		entered:          make(chan struct{}),
		release:          make(chan struct{}),
	}
	tr := newTracker(repo, DefaultThreshold, nil)
	ids := fleet(2)

	done := make(chan error, 1)
	go func() {
		_, err := tr.Evaluate(ctx, samples(ids, 0, 1), t0)
		done <- err
	}()
	<-repo.entered

	read := make(chan bool, 1)
	go func() {
		_, ok := tr.Current()
		read <- ok
	}()

	select {
	case ok := <-read:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Current blocked while the outage write was in flight")
	}

	close(repo.release)
	require.NoError(t, <-done)
	_, ok := tr.Current()
	assert.True(t, ok)
}
