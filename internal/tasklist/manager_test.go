package tasklist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandeepkv93/tasklist/internal/storage"
)

type failingRepository struct {
	loadErr error
	saveErr error
	items   []string
	saves   int
}

func (r *failingRepository) Load(context.Context) ([]string, error) {
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	return clone(r.items), nil
}

func (r *failingRepository) Save(_ context.Context, items []string) error {
	r.saves++
	if r.saveErr != nil {
		return r.saveErr
	}
	r.items = clone(items)
	return nil
}

func newManager(t *testing.T, repo Repository, opts ...Option) *Manager {
	t.Helper()
	m, err := NewManager(repo, opts...)
	require.NoError(t, err)
	return m
}

func TestManagerScenarioAddAddDelete(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, NewMemoryRepository())

	items, err := m.Add(ctx, "Buy milk")
	require.NoError(t, err)
	assert.Equal(t, []string{"Buy milk"}, items)

	items, err = m.Add(ctx, "Walk dog")
	require.NoError(t, err)
	assert.Equal(t, []string{"Buy milk", "Walk dog"}, items)

	items, err = m.Delete(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Walk dog"}, items)

	loaded, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Walk dog"}, loaded)
}

func TestManagerAddBlankIsNoOp(t *testing.T) {
	ctx := context.Background()
	repo := &failingRepository{}
	m := newManager(t, repo)

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := m.Add(ctx, text)
		require.ErrorIs(t, err, ErrEmptyInput)
	}
	assert.Zero(t, repo.saves, "blank input must not write")

	loaded, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestManagerAddKeepsTextVerbatim(t *testing.T) {
	m := newManager(t, NewMemoryRepository())
	items, err := m.Add(context.Background(), "  padded <b>&</b>  ")
	require.NoError(t, err)
	assert.Equal(t, []string{"  padded <b>&</b>  "}, items)
}

func TestManagerAddRejectsInvalidUTF8(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSlotRepository(storage.NewMemoryStore(), "tasks")
	require.NoError(t, err)
	rendered := 0
	m := newManager(t, repo, WithRenderer(func([]string) { rendered++ }))

	_, err = m.Add(ctx, "keep")
	require.NoError(t, err)

	items, err := m.Add(ctx, "caf\xe9")
	assert.ErrorIs(t, err, ErrInvalidText)
	assert.Nil(t, items)
	assert.Equal(t, 1, rendered)

	loaded, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep"}, loaded)
}

func TestManagerAddedListMatchesPersistedList(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSlotRepository(storage.NewMemoryStore(), "tasks")
	require.NoError(t, err)
	m := newManager(t, repo)

	for _, text := range []string{"café", "a\u2028b", "<b>&amp;</b>", "tab\tnewline\n"} {
		items, err := m.Add(ctx, text)
		require.NoError(t, err)
		loaded, err := m.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, items, loaded, "after adding %q", text)
	}
}

func TestManagerLoadEmptyRepository(t *testing.T) {
	m := newManager(t, NewMemoryRepository())
	items, err := m.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestManagerDeleteOutOfRange(t *testing.T) {
	ctx := context.Background()
	repo := &failingRepository{items: []string{"a", "b"}}
	m := newManager(t, repo)

	for _, index := range []int{-1, 2, 99} {
		_, err := m.Delete(ctx, index)
		require.ErrorIs(t, err, ErrIndexOutOfRange)

		var ie *IndexError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, index, ie.Index)
		assert.Equal(t, 2, ie.Len)
	}
	assert.Zero(t, repo.saves)
	assert.Equal(t, []string{"a", "b"}, repo.items)
}

func TestManagerDeleteOnEmptyList(t *testing.T) {
	m := newManager(t, NewMemoryRepository())
	_, err := m.Delete(context.Background(), 0)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.Contains(t, err.Error(), "list is empty")
}

func TestManagerRendersAfterSuccessfulMutationOnly(t *testing.T) {
	ctx := context.Background()
	var rendered [][]string
	m := newManager(t, NewMemoryRepository("first"), WithRenderer(func(items []string) {
		rendered = append(rendered, items)
	}))

	_, err := m.Add(ctx, "second")
	require.NoError(t, err)
	_, err = m.Add(ctx, " ")
	require.ErrorIs(t, err, ErrEmptyInput)
	_, err = m.Delete(ctx, 5)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = m.Delete(ctx, 0)
	require.NoError(t, err)
	_, err = m.Load(ctx)
	require.NoError(t, err)

	require.Len(t, rendered, 2)
	assert.Equal(t, []string{"first", "second"}, rendered[0])
	assert.Equal(t, []string{"second"}, rendered[1])
}

func TestManagerRendererCannotMutateState(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, NewMemoryRepository(), WithRenderer(func(items []string) {
		items[0] = "tampered"
	}))
	_, err := m.Add(ctx, "original")
	require.NoError(t, err)

	loaded, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"original"}, loaded)
}

func TestManagerSaveFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	repo := &failingRepository{items: []string{"keep"}, saveErr: boom}
	rendered := 0
	m := newManager(t, repo, WithRenderer(func([]string) { rendered++ }))

	_, err := m.Add(ctx, "lost")
	require.ErrorIs(t, err, boom)
	_, err = m.Delete(ctx, 0)
	require.ErrorIs(t, err, boom)

	assert.Equal(t, []string{"keep"}, repo.items)
	assert.Zero(t, rendered)
}

func TestManagerLoadFailurePropagates(t *testing.T) {
	ctx := context.Background()
	repo := &failingRepository{loadErr: ErrCorruptState}
	m := newManager(t, repo)

	_, err := m.Load(ctx)
	require.ErrorIs(t, err, ErrCorruptState)
	_, err = m.Add(ctx, "anything")
	require.ErrorIs(t, err, ErrCorruptState)
	assert.Zero(t, repo.saves)
}

func TestManagerOverSlotStoreDetectsConcurrentWriter(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	repoA, err := NewSlotRepository(store, "tasks")
	require.NoError(t, err)
	repoB, err := NewSlotRepository(store, "tasks")
	require.NoError(t, err)

	a := newManager(t, repoA)
	b := newManager(t, repoB)

	_, err = a.Add(ctx, "from a")
	require.NoError(t, err)

	// b has not seen a's write yet: simulate a stale tab by saving directly.
	require.ErrorIs(t, repoB.Save(ctx, []string{"from b"}), ErrConflict)

	// A fresh operation reloads first and succeeds.
	items, err := b.Add(ctx, "from b")
	require.NoError(t, err)
	assert.Equal(t, []string{"from a", "from b"}, items)
}

func TestNewManagerRequiresRepository(t *testing.T) {
	_, err := NewManager(nil)
	require.Error(t, err)
}
