package session

import (
	"path/filepath"
	"testing"

	"taskdeck/internal/models"
	"taskdeck/internal/state"
)

func openTestDB(t *testing.T) *state.DB {
	t.Helper()
	db, err := state.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDurableStoreRoundTrip(t *testing.T) {
	t.Parallel()

	store := NewDurableStore(openTestDB(t))

	if store.Load() != nil {
		t.Fatal("empty store should load nil")
	}

	sess := models.Session{
		Token: "tok-1",
		User:  models.User{ID: "u1", FirstName: "Ada", Email: "ada@example.com", Role: models.RoleAdmin},
	}
	if err := store.Save(sess); err != nil {
		t.Fatal(err)
	}

	got := store.Load()
	if got == nil {
		t.Fatal("Load returned nil after Save")
	}
	if got.Token != "tok-1" || got.User.ID != "u1" || got.User.Role != models.RoleAdmin {
		t.Fatalf("Load = %+v", got)
	}

	if err := store.Clear(); err != nil {
		t.Fatal(err)
	}
	if store.Load() != nil {
		t.Fatal("Load should return nil after Clear")
	}
}

func TestDurableStoreMalformedProfile(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	store := NewDurableStore(db)

	if err := db.SetSetting("auth_token", "tok"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetSetting("auth_user", "{not json"); err != nil {
		t.Fatal(err)
	}

	if store.Load() != nil {
		t.Fatal("a corrupt profile must degrade to not authenticated")
	}
}

func TestDurableStoreTokenWithoutProfile(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	store := NewDurableStore(db)

	if err := db.SetSetting("auth_token", "tok"); err != nil {
		t.Fatal(err)
	}
	if store.Load() != nil {
		t.Fatal("a token without a profile must load nil")
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	if err := store.Save(models.Session{Token: "tok", User: models.User{FirstName: "Ada"}}); err != nil {
		t.Fatal(err)
	}

	first := store.Load()
	first.User.FirstName = "mutated"

	if store.Load().User.FirstName != "Ada" {
		t.Fatal("Load must return a copy")
	}
}
