package core_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/spatialnotes/pkg/core"
	"github.com/aretw0/spatialnotes/pkg/spatial"
)

// MockRepository implements core.Repository in memory.
type MockRepository struct {
	notes   []core.Note
	saved   int
	loadErr error
	saveErr error
}

func (m *MockRepository) Initialize(ctx context.Context) error { return nil }

func (m *MockRepository) Load(ctx context.Context) ([]core.Note, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.notes == nil {
		return nil, core.ErrNotFound
	}
	return m.notes, nil
}

func (m *MockRepository) Save(ctx context.Context, notes []core.Note) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved++
	m.notes = notes
	return nil
}

func TestService_CRUD(t *testing.T) {
	svc := core.NewService(&MockRepository{}, nil)

	// 1. Create
	note := core.NewNote("CRUD test")
	if err := svc.AddNote(note); err != nil {
		t.Fatalf("AddNote failed: %v", err)
	}
	if svc.Len() != 1 {
		t.Fatalf("expected 1 note, got %d", svc.Len())
	}

	// 2. Read
	got, ok := svc.GetNote(note.ID)
	if !ok {
		t.Fatal("expected note to be found")
	}
	if got.Content != "CRUD test" {
		t.Errorf("expected content 'CRUD test', got '%s'", got.Content)
	}

	// 3. Update
	got.Content = "Updated content"
	if err := svc.UpdateNote(got); err != nil {
		t.Fatalf("UpdateNote failed: %v", err)
	}
	got, _ = svc.GetNote(note.ID)
	if got.Content != "Updated content" {
		t.Errorf("expected updated content, got '%s'", got.Content)
	}

	// 4. Delete
	if err := svc.DeleteNote(note.ID); err != nil {
		t.Fatalf("DeleteNote failed: %v", err)
	}
	if _, ok := svc.GetNote(note.ID); ok {
		t.Error("expected note to be gone after deletion")
	}
	if svc.Len() != 0 {
		t.Errorf("expected empty store, got %d", svc.Len())
	}
}

func TestService_UpdateTouchesButKeepsCreatedAt(t *testing.T) {
	svc := core.NewService(&MockRepository{}, nil)
	note := core.NewNote("first")
	note.CreatedAt = note.CreatedAt.Add(-time.Hour)
	note.UpdatedAt = note.CreatedAt
	require.NoError(t, svc.AddNote(note))

	edited := note
	edited.Content = "second"
	edited.CreatedAt = edited.CreatedAt.Add(time.Hour * 24)
	require.NoError(t, svc.UpdateNote(edited))

	got, _ := svc.GetNote(note.ID)
	assert.Equal(t, note.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(note.UpdatedAt))
}

func TestService_UpdateUnknownIsNotFound(t *testing.T) {
	svc := core.NewService(&MockRepository{}, nil)
	require.NoError(t, svc.AddNote(core.NewNote("kept")))

	err := svc.UpdateNote(core.NewNote("ghost"))
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, 1, svc.Len())
}

func TestService_UpdatePositionKeepsOtherFields(t *testing.T) {
	svc := core.NewService(&MockRepository{}, nil)
	note := core.NewNote("original")
	note.UpdatedAt = note.UpdatedAt.Add(-time.Hour)
	require.NoError(t, svc.AddNote(note))
	changes := 0
	svc.OnChange(func() { changes++ })

	// Another writer replaces the content after the caller read the note.
	edited := note
	edited.Content = "edited elsewhere"
	edited.Category = core.CategoryWork
	svc.Replace([]core.Note{edited})

	moved, err := svc.UpdatePosition(note.ID, spatial.V(1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, "edited elsewhere", moved.Content)
	assert.Equal(t, core.CategoryWork, moved.Category)
	assert.Equal(t, spatial.V(1, 2, 3), moved.Position)
	assert.True(t, moved.UpdatedAt.After(note.UpdatedAt))
	assert.Equal(t, 1, changes)

	got, _ := svc.GetNote(note.ID)
	assert.Equal(t, moved, got)

	_, err = svc.UpdatePosition(uuid.New(), spatial.Zero)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Equal(t, 1, changes)
}

func TestService_AddRejectsInvalid(t *testing.T) {
	svc := core.NewService(&MockRepository{}, nil)

	assert.ErrorIs(t, svc.AddNote(core.Note{}), core.ErrInvalidNote)

	n := core.NewNote("once")
	require.NoError(t, svc.AddNote(n))
	assert.ErrorIs(t, svc.AddNote(n), core.ErrInvalidNote)
}

func TestService_AddNormalizesEnumerants(t *testing.T) {
	svc := core.NewService(&MockRepository{}, nil)
	n := core.NewNote("odd")
	n.Category = "Unknown"
	n.Size = ""
	n.Orientation = spatial.Quat{}
	require.NoError(t, svc.AddNote(n))

	got, _ := svc.GetNote(n.ID)
	assert.Equal(t, core.CategoryNone, got.Category)
	assert.Equal(t, core.SizeMedium, got.Size)
	assert.Equal(t, spatial.IdentityQuat, got.Orientation)
}

func TestService_OnChange(t *testing.T) {
	svc := core.NewService(&MockRepository{}, nil)
	calls := 0
	svc.OnChange(func() { calls++ })

	n := core.NewNote("watched")
	require.NoError(t, svc.AddNote(n))
	require.NoError(t, svc.UpdateNote(n))
	require.NoError(t, svc.DeleteNote(n.ID))
	svc.Replace([]core.Note{core.NewNote("reloaded")})

	assert.Equal(t, 3, calls, "Replace must not notify")
}

func TestService_DeleteKeepsOrderAndIndex(t *testing.T) {
	svc := core.NewService(&MockRepository{}, nil)
	a, b, c := core.NewNote("a"), core.NewNote("b"), core.NewNote("c")
	for _, n := range []core.Note{a, b, c} {
		require.NoError(t, svc.AddNote(n))
	}

	require.NoError(t, svc.DeleteNote(a.ID))
	assert.ErrorIs(t, svc.DeleteNote(a.ID), core.ErrNotFound)

	list := svc.ListNotes()
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, c.ID, list[1].ID)

	got, ok := svc.GetNote(c.ID)
	require.True(t, ok)
	assert.Equal(t, "c", got.Content)
}

func TestService_LoadAndSave(t *testing.T) {
	ctx := context.Background()
	repo := &MockRepository{}

	first := core.NewService(repo, nil)
	require.NoError(t, first.Load(ctx))
	assert.Equal(t, 0, first.Len())

	n1 := core.NewNote("First test note")
	n1.Position = spatial.V(1, 1, 1)
	n2 := core.NewNote("Second test note")
	n2.Position = spatial.V(2, 2, 2)
	require.NoError(t, first.AddNote(n1))
	require.NoError(t, first.AddNote(n2))
	require.NoError(t, first.Save(ctx))

	second := core.NewService(repo, nil)
	require.NoError(t, second.Load(ctx))
	assert.Equal(t, 2, second.Len())
	_, ok := second.GetNote(n1.ID)
	assert.True(t, ok)
	_, ok = second.GetNote(n2.ID)
	assert.True(t, ok)
}

func TestService_LoadFailureFallsBackToEmpty(t *testing.T) {
	repo := &MockRepository{loadErr: core.ErrMalformed}
	svc := core.NewService(repo, nil)
	require.NoError(t, svc.AddNote(core.NewNote("stale")))

	err := svc.Load(context.Background())
	assert.ErrorIs(t, err, core.ErrMalformed)
	assert.Equal(t, 0, svc.Len())
}

func TestService_SaveFailureKeepsMemory(t *testing.T) {
	repo := &MockRepository{saveErr: errors.New("disk full")}
	svc := core.NewService(repo, nil)
	require.NoError(t, svc.AddNote(core.NewNote("in memory")))

	assert.Error(t, svc.Save(context.Background()))
	assert.Equal(t, 1, svc.Len())
}

func TestService_Filtering(t *testing.T) {
	svc := core.NewService(&MockRepository{}, nil)
	work := core.NewNote("Quarterly REPORT draft")
	work.Category = core.CategoryWork
	idea := core.NewNote("a garden idea")
	idea.Category = core.CategoryIdea
	todo := core.NewNote("buy milk")
	todo.Category = core.CategoryTodo
	for _, n := range []core.Note{todo, work, idea} {
		require.NoError(t, svc.AddNote(n))
	}

	assert.Len(t, svc.NotesIn(core.CategoryWork), 1)
	assert.Empty(t, svc.NotesIn(core.CategoryReminder))

	found := svc.Search("report")
	require.Len(t, found, 1)
	assert.Equal(t, work.ID, found[0].ID)
	assert.Len(t, svc.Search(""), 3)

	assert.Equal(t, []core.Category{core.CategoryWork, core.CategoryIdea, core.CategoryTodo}, svc.Categories())
}

func TestService_Resolve(t *testing.T) {
	svc := core.NewService(&MockRepository{}, nil)
	a := core.NewNote("a")
	a.ID = uuid.MustParse("aaaaaaaa-0000-4000-8000-000000000001")
	b := core.NewNote("b")
	b.ID = uuid.MustParse("aaaaaaaa-0000-4000-8000-000000000002")
	require.NoError(t, svc.AddNote(a))
	require.NoError(t, svc.AddNote(b))

	_, err := svc.Resolve("aaaa")
	assert.ErrorIs(t, err, core.ErrAmbiguous)

	got, err := svc.Resolve(b.ID.String())
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = svc.Resolve("ffff")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestService_State(t *testing.T) {
	svc := core.NewService(&MockRepository{}, nil)
	require.NoError(t, svc.AddNote(core.NewNote("x")))

	state, ok := svc.State().(core.ServiceState)
	require.True(t, ok)
	assert.Equal(t, 1, state.Notes)
	assert.Equal(t, "repository", state.RepositoryType)
	assert.Equal(t, "service", svc.ComponentType())
}

func TestService_WatchUnsupported(t *testing.T) {
	svc := core.NewService(&MockRepository{}, nil)
	_, err := svc.Watch(context.Background())
	assert.Error(t, err)
}
