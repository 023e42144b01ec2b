package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskdeck/internal/models"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestManagerLoginUpdatesStoreAndMemoryTogether(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	m := NewManager(store)

	if m.Authenticated() {
		t.Fatal("fresh manager should not be authenticated")
	}

	user := models.User{ID: "u1", FirstName: "Ada"}
	if err := m.Login("tok-1", user); err != nil {
		t.Fatal(err)
	}

	if !m.Authenticated() {
		t.Fatal("authenticated after login")
	}
	if got := m.Token(); got != "tok-1" {
		t.Fatalf("Token = %q", got)
	}
	stored := store.Load()
	if stored == nil || stored.Token != "tok-1" {
		t.Fatalf("store not updated: %+v", stored)
	}
	if cur := m.Current(); cur == nil || cur.User.ID != "u1" {
		t.Fatalf("Current = %+v", cur)
	}
}

func TestManagerLogoutClearsBoth(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	m := NewManager(store)
	if err := m.Login("tok", models.User{ID: "u1"}); err != nil {
		t.Fatal(err)
	}

	m.Logout()

	if m.Authenticated() {
		t.Fatal("still authenticated after logout")
	}
	if m.Token() != "" {
		t.Fatal("token survived logout")
	}
	if store.Load() != nil {
		t.Fatal("store survived logout")
	}
}

func TestManagerUnauthorizedHookClearsSession(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	m := NewManager(store)
	if err := m.Login("tok", models.User{ID: "u1"}); err != nil {
		t.Fatal(err)
	}

	m.HandleUnauthorized()

	if m.Authenticated() {
		t.Fatal("still authenticated after 401 hook")
	}
	if store.Load() != nil {
		t.Fatal("store not cleared by 401 hook")
	}
}

func TestManagerDiscardsExpiredTokenAtStartup(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	store.Save(models.Session{
		Token: signedToken(t, time.Now().Add(-time.Hour)),
		User:  models.User{ID: "u1"},
	})

	m := NewManager(store)

	if m.Authenticated() {
		t.Fatal("expired token should be discarded")
	}
	if store.Load() != nil {
		t.Fatal("expired session should be cleared from the store")
	}
}

func TestManagerKeepsValidAndOpaqueTokens(t *testing.T) {
	t.Parallel()

	t.Run("valid jwt", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStore()
		store.Save(models.Session{Token: signedToken(t, time.Now().Add(time.Hour))})
		if !NewManager(store).Authenticated() {
			t.Fatal("valid token should be kept")
		}
	})

	t.Run("opaque token", func(t *testing.T) {
		t.Parallel()
		store := NewMemoryStore()
		store.Save(models.Session{Token: "not-a-jwt"})
		if !NewManager(store).Authenticated() {
			t.Fatal("opaque token should be kept")
		}
	})
}

func TestManagerBroadcastsAuthChanges(t *testing.T) {
	t.Parallel()

	m := NewManager(NewMemoryStore())

	var events []bool
	m.Subscribe(func(authenticated bool) {
		events = append(events, authenticated)
	})

	if err := m.Login("tok", models.User{ID: "u1"}); err != nil {
		t.Fatal(err)
	}
	m.Logout()

	if len(events) != 2 || !events[0] || events[1] {
		t.Fatalf("events = %v, want [true false]", events)
	}
}

func TestManagerUpdateUserKeepsToken(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	m := NewManager(store)
	if err := m.Login("tok", models.User{ID: "u1", FirstName: "Ada"}); err != nil {
		t.Fatal(err)
	}

	edited := models.User{ID: "u1", FirstName: "Augusta", LastName: "King", AvatarURL: "/uploads/u1.png"}
	if err := m.UpdateUser(edited); err != nil {
		t.Fatal(err)
	}

	if m.Token() != "tok" {
		t.Fatal("profile update must not touch the token")
	}
	cur := m.Current()
	if cur == nil || cur.User.FirstName != "Augusta" || cur.User.AvatarURL != "/uploads/u1.png" {
		t.Fatalf("Current = %+v", cur)
	}
	stored := store.Load()
	if stored == nil || stored.User.LastName != "King" || stored.Token != "tok" {
		t.Fatalf("store = %+v", stored)
	}
}

func TestManagerUpdateUserWithoutSessionIsANoop(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	m := NewManager(store)

	if err := m.UpdateUser(models.User{ID: "u1"}); err != nil {
		t.Fatal(err)
	}
	if m.Authenticated() || store.Load() != nil {
		t.Fatal("an update without a session must not create one")
	}
}

func TestCurrentReturnsACopy(t *testing.T) {
	t.Parallel()

	m := NewManager(NewMemoryStore())
	if err := m.Login("tok", models.User{ID: "u1", FirstName: "Ada"}); err != nil {
		t.Fatal(err)
	}

	cur := m.Current()
	cur.User.FirstName = "mutated"

	if m.Current().User.FirstName != "Ada" {
		t.Fatal("Current must return a copy")
	}
}
