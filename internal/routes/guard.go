package routes

import "taskdeck/internal/models"

// Page identifies a navigable view
type Page int

const (
	PageHome Page = iota
	PageLogin
	PageRegister
	PageDashboard
	PageNotifications
	PageAdmin
	PageUnknown
)

func (p Page) String() string {
	switch p {
	case PageHome:
		return "home"
	case PageLogin:
		return "login"
	case PageRegister:
		return "register"
	case PageDashboard:
		return "dashboard"
	case PageNotifications:
		return "notifications"
	case PageAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Policy holds deployment-level guard choices
type Policy struct {
	// HomeRedirectsAuthenticated sends signed-in users straight from the
	// landing page to the dashboard.
	HomeRedirectsAuthenticated bool
}

// Decision is the guard's verdict for one navigation target. Redirects
// always replace the current history entry so the back key cannot loop.
type Decision struct {
	Page     Page
	Redirect bool
}

// Decide maps a navigation target and the current auth state to the page to
// render. Pure: identical inputs always yield identical decisions.
func Decide(target Page, authenticated bool, role models.Role, policy Policy) Decision {
	switch target {
	case PageHome:
		if authenticated && policy.HomeRedirectsAuthenticated {
			return Decision{Page: PageDashboard, Redirect: true}
		}
		return Decision{Page: PageHome}

	case PageLogin, PageRegister:
		// No forced redirect away for authenticated users
		return Decision{Page: target}

	case PageDashboard, PageNotifications:
		if !authenticated {
			return Decision{Page: PageLogin, Redirect: true}
		}
		return Decision{Page: target}

	case PageAdmin:
		if !authenticated || role != models.RoleAdmin {
			return Decision{Page: PageLogin, Redirect: true}
		}
		return Decision{Page: PageAdmin}

	default:
		return Decision{Page: PageHome, Redirect: true}
	}
}
