package autosave_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/spatialnotes/pkg/autosave"
	"github.com/aretw0/spatialnotes/pkg/core"
)

type countingStore struct {
	saves atomic.Int64
	err   error
}

func (c *countingStore) Save(ctx context.Context) error {
	c.saves.Add(1)
	return c.err
}

func TestSaver_DebouncesBursts(t *testing.T) {
	store := &countingStore{}
	s := autosave.New(store, 30*time.Millisecond, nil)

	for i := 0; i < 10; i++ {
		s.Trigger()
		time.Sleep(2 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return store.saves.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int64(1), store.saves.Load())

	state := s.State().(autosave.SaverState)
	assert.Equal(t, 1, state.Saves)
	assert.False(t, state.Pending)
	assert.NotNil(t, state.LastSave)
}

func TestSaver_FlushSavesPendingOnly(t *testing.T) {
	store := &countingStore{}
	s := autosave.New(store, time.Hour, nil)

	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, int64(0), store.saves.Load(), "nothing pending")

	s.Trigger()
	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, int64(1), store.saves.Load())
}

func TestSaver_FailureIsReported(t *testing.T) {
	store := &countingStore{err: errors.New("disk full")}
	s := autosave.New(store, time.Hour, nil)

	s.Trigger()
	err := s.Flush(context.Background())
	assert.EqualError(t, err, "disk full")

	state := s.State().(autosave.SaverState)
	assert.Equal(t, 1, state.Failures)
	assert.Equal(t, "disk full", state.LastError)
	assert.Equal(t, "autosave", s.ComponentType())
}

func TestSaver_CloseRetriesFailedSave(t *testing.T) {
	store := &countingStore{err: errors.New("disk full")}
	s := autosave.New(store, time.Hour, nil)

	s.Trigger()
	require.Error(t, s.Flush(context.Background()))
	assert.True(t, s.State().(autosave.SaverState).Pending)

	store.err = nil
	require.NoError(t, s.Close(context.Background()))
	assert.Equal(t, int64(2), store.saves.Load())

	state := s.State().(autosave.SaverState)
	assert.False(t, state.Pending)
	assert.Equal(t, 1, state.Saves)
	assert.Equal(t, 1, state.Failures)
	assert.Empty(t, state.LastError)
}

func TestSaver_CloseFlushesAndStops(t *testing.T) {
	store := &countingStore{}
	s := autosave.New(store, time.Hour, nil)

	s.Trigger()
	require.NoError(t, s.Close(context.Background()))
	assert.Equal(t, int64(1), store.saves.Load())

	s.Trigger()
	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, int64(1), store.saves.Load(), "triggers after close are ignored")
}

type memRepo struct {
	saved atomic.Pointer[[]core.Note]
	err   error
}

func (m *memRepo) Initialize(ctx context.Context) error { return nil }

func (m *memRepo) Load(ctx context.Context) ([]core.Note, error) { return nil, core.ErrNotFound }

func (m *memRepo) Save(ctx context.Context, notes []core.Note) error {
	if m.err != nil {
		return m.err
	}
	m.saved.Store(&notes)
	return nil
}

func TestSaver_WithService(t *testing.T) {
	repo := &memRepo{}
	svc := core.NewService(repo, nil)
	s := autosave.New(svc, 20*time.Millisecond, nil)
	svc.OnChange(s.Trigger)

	n := core.NewNote("autosaved")
	require.NoError(t, svc.AddNote(n))
	n.Content = "autosaved twice"
	require.NoError(t, svc.UpdateNote(n))

	require.Eventually(t, func() bool {
		saved := repo.saved.Load()
		return saved != nil && len(*saved) == 1 && (*saved)[0].Content == "autosaved twice"
	}, time.Second, 5*time.Millisecond)
}

func TestSaver_FailureKeepsMemory(t *testing.T) {
	repo := &memRepo{err: errors.New("read-only filesystem")}
	svc := core.NewService(repo, nil)
	s := autosave.New(svc, time.Hour, nil)
	svc.OnChange(s.Trigger)

	require.NoError(t, svc.AddNote(core.NewNote("kept")))
	assert.Error(t, s.Flush(context.Background()))
	assert.Equal(t, 1, svc.Len())
}
