package routes

import (
	"testing"

	"taskdeck/internal/models"
)

func TestDecide(t *testing.T) {
	t.Parallel()

	policy := Policy{HomeRedirectsAuthenticated: true}

	tests := []struct {
		name   string
		target Page
		authed bool
		role   models.Role
		want   Decision
	}{
		{"home anonymous", PageHome, false, "", Decision{Page: PageHome}},
		{"home authenticated", PageHome, true, models.RoleUser, Decision{Page: PageDashboard, Redirect: true}},
		{"login anonymous", PageLogin, false, "", Decision{Page: PageLogin}},
		{"login authenticated", PageLogin, true, models.RoleUser, Decision{Page: PageLogin}},
		{"register anonymous", PageRegister, false, "", Decision{Page: PageRegister}},
		{"dashboard anonymous", PageDashboard, false, "", Decision{Page: PageLogin, Redirect: true}},
		{"dashboard authenticated", PageDashboard, true, models.RoleUser, Decision{Page: PageDashboard}},
		{"notifications anonymous", PageNotifications, false, "", Decision{Page: PageLogin, Redirect: true}},
		{"notifications authenticated", PageNotifications, true, models.RoleUser, Decision{Page: PageNotifications}},
		{"admin anonymous", PageAdmin, false, "", Decision{Page: PageLogin, Redirect: true}},
		{"admin as user", PageAdmin, true, models.RoleUser, Decision{Page: PageLogin, Redirect: true}},
		{"admin as admin", PageAdmin, true, models.RoleAdmin, Decision{Page: PageAdmin}},
		{"unknown", PageUnknown, false, "", Decision{Page: PageHome, Redirect: true}},
		{"unknown authenticated", PageUnknown, true, models.RoleAdmin, Decision{Page: PageHome, Redirect: true}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Decide(tc.target, tc.authed, tc.role, policy)
			if got != tc.want {
				t.Fatalf("Decide = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestDecideHomeRedirectDisabled(t *testing.T) {
	t.Parallel()

	got := Decide(PageHome, true, models.RoleUser, Policy{HomeRedirectsAuthenticated: false})
	if got != (Decision{Page: PageHome}) {
		t.Fatalf("Decide = %+v", got)
	}
}

// Re-running the guard on its own output must be a no-op, otherwise
// re-evaluating after every update would loop.
func TestDecideIdempotent(t *testing.T) {
	t.Parallel()

	pages := []Page{PageHome, PageLogin, PageRegister, PageDashboard, PageNotifications, PageAdmin, PageUnknown}
	roles := []models.Role{models.RoleUser, models.RoleAdmin}
	policies := []Policy{{HomeRedirectsAuthenticated: true}, {HomeRedirectsAuthenticated: false}}

	for _, page := range pages {
		for _, authed := range []bool{true, false} {
			for _, role := range roles {
				for _, policy := range policies {
					first := Decide(page, authed, role, policy)
					second := Decide(first.Page, authed, role, policy)
					if second.Page != first.Page {
						t.Fatalf("guard not stable: %v -> %v -> %v (authed=%v role=%v policy=%+v)",
							page, first.Page, second.Page, authed, role, policy)
					}
				}
			}
		}
	}
}
