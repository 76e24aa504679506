package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/spatialnotes/pkg/adapters/fs"
	"github.com/aretw0/spatialnotes/pkg/core"
	"github.com/aretw0/spatialnotes/pkg/spatial"
)

// setupRepo helps create a repository for testing.
// It returns the repository and the root path of the vault.
func setupRepo(t *testing.T, opts ...func(*fs.Config)) (*fs.Repository, string) {
	t.Helper()

	vaultPath := filepath.Join(t.TempDir(), "vault")
	cfg := fs.Config{Path: vaultPath}
	for _, opt := range opts {
		opt(&cfg)
	}
	return fs.NewRepository(cfg), vaultPath
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Directory if Missing", func(t *testing.T) {
		repo, path := setupRepo(t)

		if err := repo.Initialize(context.Background()); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("expected directory to be created at %s", path)
		}
	})

	t.Run("Fails if MustExist and Missing", func(t *testing.T) {
		repo, _ := setupRepo(t, func(c *fs.Config) { c.MustExist = true })

		if err := repo.Initialize(context.Background()); err == nil {
			t.Error("expected Initialize to fail when directory is missing and MustExist=true")
		}
	})

	t.Run("Read Only Creates Nothing", func(t *testing.T) {
		repo, path := setupRepo(t, func(c *fs.Config) { c.ReadOnly = true })

		if err := repo.Initialize(context.Background()); err == nil {
			t.Error("expected Initialize to fail on a missing read-only vault")
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Errorf("read-only Initialize must not create %s", path)
		}
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing File", func(t *testing.T) {
		repo, _ := setupRepo(t)
		if err := repo.Initialize(ctx); err != nil {
			t.Fatal(err)
		}

		_, err := repo.Load(ctx)
		if !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Malformed Record Fails Whole File", func(t *testing.T) {
		repo, path := setupRepo(t)
		if err := repo.Initialize(ctx); err != nil {
			t.Fatal(err)
		}
		data := `[
  {"id": "3F2504E0-4F89-11D3-9A0C-0305E82C3301", "content": "ok", "position": [0, 0, -1]},
  {"id": "6BA7B810-9DAD-11D1-80B4-00C04FD430C8", "content": "bad", "position": [0, 0]}
]`
		if err := os.WriteFile(filepath.Join(path, fs.DefaultFileName), []byte(data), 0644); err != nil {
			t.Fatal(err)
		}

		notes, err := repo.Load(ctx)
		if !errors.Is(err, core.ErrMalformed) {
			t.Fatalf("expected ErrMalformed, got %v", err)
		}
		if notes != nil {
			t.Errorf("expected no notes, got %d", len(notes))
		}
	})
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	repo, path := setupRepo(t, func(c *fs.Config) { c.FileName = "notes.json" })
	if err := repo.Initialize(ctx); err != nil {
		t.Fatal(err)
	}

	a := core.NewNote("Buy milk")
	a.Position = spatial.V(0.5, 1.2, -1)
	a.Category = core.CategoryReminder
	b := core.NewNote("Ship it")
	b.Size = core.SizeLarge

	if err := repo.Save(ctx, []core.Note{a, b}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(path, "notes.json"))
	if err != nil {
		t.Fatalf("notes file missing: %v", err)
	}
	if !strings.HasPrefix(string(raw), "[\n") || !strings.HasSuffix(string(raw), "]\n") {
		t.Errorf("expected a pretty printed array, got:\n%s", raw)
	}

	entries, _ := os.ReadDir(path)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), fs.TempFilePrefix) {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(loaded))
	}
	if loaded[0].ID != a.ID || loaded[1].ID != b.ID {
		t.Error("expected stored order to be kept")
	}
	if loaded[0].Category != core.CategoryReminder || !loaded[0].Position.Near(a.Position, 1e-9) {
		t.Errorf("unexpected first note: %+v", loaded[0])
	}
	if loaded[1].Size != core.SizeLarge || loaded[1].Placed() {
		t.Errorf("unexpected second note: %+v", loaded[1])
	}

	state, ok := repo.State().(fs.RepositoryState)
	if !ok {
		t.Fatal("expected RepositoryState")
	}
	if state.Notes != 2 || state.LastSave == nil || state.LastLoad == nil {
		t.Errorf("unexpected state: %+v", state)
	}
	if state.File != "notes.json" || state.Pattern != "notes.json" {
		t.Errorf("unexpected file settings: %+v", state)
	}
}

func TestSave_ReadOnly(t *testing.T) {
	repo, _ := setupRepo(t, func(c *fs.Config) { c.ReadOnly = true })

	err := repo.Save(context.Background(), []core.Note{core.NewNote("nope")})
	if !errors.Is(err, core.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}

func TestService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)
	if err := repo.Initialize(ctx); err != nil {
		t.Fatal(err)
	}

	svc := core.NewService(repo, nil)
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("Load of a fresh vault failed: %v", err)
	}
	note := core.NewNote("persist me")
	if err := svc.AddNote(note); err != nil {
		t.Fatal(err)
	}
	if err := svc.Save(ctx); err != nil {
		t.Fatal(err)
	}

	reopened := core.NewService(repo, nil)
	if err := reopened.Load(ctx); err != nil {
		t.Fatal(err)
	}
	got, ok := reopened.GetNote(note.ID)
	if !ok || got.Content != "persist me" {
		t.Errorf("expected note to survive a reload, got %+v", got)
	}
}
