// Package ui wires the views into one program: navigation with the route
// guard, the notification poll loop, toasts and theme switching.
package ui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/models"
	"taskdeck/internal/notify"
	"taskdeck/internal/routes"
	"taskdeck/internal/session"
	"taskdeck/internal/state"
	"taskdeck/internal/tasks"
	"taskdeck/internal/ui/styles"
	"taskdeck/internal/ui/views"
)

// ThemeSetting is the state key holding the active theme name
const ThemeSetting = "app_theme"

type pollTickMsg struct{ gen int }

type toastExpireMsg struct{ seq int }

// App is the root model. It owns the navigation history and forwards
// messages only to the active view, so a response that arrives after the
// user moved on cannot mutate a page they are no longer looking at.
type App struct {
	log    *slog.Logger
	cfg    config.Config
	mgr    *session.Manager
	client *api.Client
	poller *notify.Poller
	store  *state.DB
	styles *styles.Styles

	page    routes.Page
	history []routes.Page

	home          *views.HomeView
	login         *views.LoginView
	register      *views.RegisterView
	dashboard     *views.DashboardView
	notifications *views.NotificationsView
	admin         *views.AdminView

	toastText  string
	toastLevel views.ToastLevel
	toastSeq   int

	polling bool
	pollGen int
	width   int
	height  int
}

func NewApp(log *slog.Logger, cfg config.Config, mgr *session.Manager, client *api.Client, poller *notify.Poller, store *state.DB) *App {
	a := &App{
		log:      log,
		cfg:      cfg,
		mgr:      mgr,
		client:   client,
		poller:   poller,
		store:    store,
		styles:   styles.NewStyles(),
		home:     views.NewHomeView(),
		login:    views.NewLoginView(client),
		register: views.NewRegisterView(client),
	}
	if mgr.Authenticated() {
		a.buildAuthedViews()
	}
	a.history = []routes.Page{routes.PageHome}
	a.applyGuard(routes.PageHome, true)
	return a
}

func (a *App) policy() routes.Policy {
	return routes.Policy{HomeRedirectsAuthenticated: a.cfg.HomeRedirect}
}

func (a *App) role() models.Role {
	if sess := a.mgr.Current(); sess != nil {
		return sess.User.Role
	}
	return ""
}

// buildAuthedViews constructs the session-scoped views for the current user
func (a *App) buildAuthedViews() {
	sess := a.mgr.Current()
	if sess == nil {
		return
	}
	rec := tasks.NewReconciler(a.client, sess.User.ID)
	a.dashboard = views.NewDashboardView(a.client, rec, sess.User)
	a.notifications = views.NewNotificationsView(a.poller)
	a.admin = views.NewAdminView(a.client)
	a.propagateSize()
}

func (a *App) dropAuthedViews() {
	a.dashboard = nil
	a.notifications = nil
	a.admin = nil
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.activeInit()}
	if a.mgr.Authenticated() {
		cmds = append(cmds, a.startPolling())
	}
	return tea.Batch(cmds...)
}

// applyGuard runs the route guard for target and updates the history.
// Redirects replace the current entry so the back key cannot bounce
// between a guarded page and its redirect target.
func (a *App) applyGuard(target routes.Page, replace bool) {
	decision := routes.Decide(target, a.mgr.Authenticated(), a.role(), a.policy())
	if replace || decision.Redirect {
		if len(a.history) == 0 {
			a.history = []routes.Page{decision.Page}
		} else {
			a.history[len(a.history)-1] = decision.Page
		}
	} else if decision.Page != a.page {
		a.history = append(a.history, decision.Page)
	}
	a.page = decision.Page
}

// reGuard re-runs the guard for the page we are already on. A session that
// expired or was cleared since the last message redirects here.
func (a *App) reGuard() tea.Cmd {
	before := a.page
	a.applyGuard(a.page, true)
	if a.page != before {
		a.log.Info("guard redirect", "from", before.String(), "to", a.page.String())
		return a.activeInit()
	}
	return nil
}

func (a *App) navigateTo(target routes.Page) tea.Cmd {
	decision := routes.Decide(target, a.mgr.Authenticated(), a.role(), a.policy())
	if decision.Redirect {
		if len(a.history) == 0 {
			a.history = []routes.Page{decision.Page}
		} else {
			a.history[len(a.history)-1] = decision.Page
		}
	} else if decision.Page != a.page {
		a.history = append(a.history, decision.Page)
	}
	if decision.Page == a.page {
		return nil
	}
	a.page = decision.Page
	return a.activeInit()
}

func (a *App) navigateBack() tea.Cmd {
	if len(a.history) < 2 {
		return nil
	}
	a.history = a.history[:len(a.history)-1]
	target := a.history[len(a.history)-1]
	a.applyGuard(target, true)
	return a.activeInit()
}

// resetTo replaces the whole history with a single page
func (a *App) resetTo(target routes.Page) tea.Cmd {
	a.history = []routes.Page{target}
	a.applyGuard(target, true)
	return a.activeInit()
}

func (a *App) activeInit() tea.Cmd {
	switch a.page {
	case routes.PageHome:
		return a.home.Init()
	case routes.PageLogin:
		return a.login.Init()
	case routes.PageRegister:
		return a.register.Init()
	case routes.PageDashboard:
		if a.dashboard != nil {
			return a.dashboard.Init()
		}
	case routes.PageNotifications:
		if a.notifications != nil {
			return a.notifications.Init()
		}
	case routes.PageAdmin:
		if a.admin != nil {
			return a.admin.Init()
		}
	}
	return nil
}

// ----- polling -----

func (a *App) startPolling() tea.Cmd {
	if a.polling {
		return nil
	}
	a.polling = true
	a.pollGen++
	return tea.Batch(a.syncCmd(), a.pollTick())
}

func (a *App) pollTick() tea.Cmd {
	gen := a.pollGen
	return tea.Tick(a.cfg.PollInterval, func(time.Time) tea.Msg {
		return pollTickMsg{gen: gen}
	})
}

func (a *App) syncCmd() tea.Cmd {
	poller := a.poller
	return func() tea.Msg {
		fresh, err := poller.Sync(context.Background())
		return views.NotificationsSynced{Fresh: fresh, Err: err}
	}
}

// ----- toasts -----

func (a *App) showToast(t views.Toast) tea.Cmd {
	a.toastText = t.Text
	a.toastLevel = t.Level
	a.toastSeq++
	seq := a.toastSeq

	// admin confirmations linger a little longer
	d := 2500 * time.Millisecond
	if a.page == routes.PageAdmin {
		d = 3 * time.Second
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return toastExpireMsg{seq: seq}
	})
}

// ----- theme -----

func (a *App) cycleTheme() tea.Cmd {
	name := styles.NextName(styles.Current.Name)
	styles.SetCurrent(name)
	a.styles = styles.NewStyles()
	a.home.Retheme()
	a.login.Retheme()
	a.register.Retheme()
	if a.dashboard != nil {
		a.dashboard.Retheme()
	}
	if a.notifications != nil {
		a.notifications.Retheme()
	}
	if a.admin != nil {
		a.admin.Retheme()
	}

	store := a.store
	log := a.log
	return func() tea.Msg {
		if store != nil {
			if err := store.SetSetting(ThemeSetting, name); err != nil {
				log.Warn("persist theme", "error", err)
			}
		}
		return nil
	}
}

// ----- sizing -----

func (a *App) propagateSize() {
	if a.width == 0 {
		return
	}
	a.home.SetSize(a.width, a.height)
	a.login.SetSize(a.width, a.height)
	a.register.SetSize(a.width, a.height)
	if a.dashboard != nil {
		a.dashboard.SetSize(a.width, a.height)
	}
	if a.notifications != nil {
		a.notifications.SetSize(a.width, a.height)
	}
	if a.admin != nil {
		a.admin.SetSize(a.width, a.height)
	}
}

// ----- update -----

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.propagateSize()
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.page == routes.PageHome {
				return a, tea.Quit
			}
		case "ctrl+t":
			return a, a.cycleTheme()
		}

	case views.Navigate:
		return a, a.navigateTo(msg.Page)

	case views.NavigateBack:
		return a, a.navigateBack()

	case views.LoggedIn:
		if err := a.mgr.Login(msg.Session.Token, msg.Session.User); err != nil {
			a.log.Error("persist session", "error", err)
		}
		a.buildAuthedViews()
		cmd := a.resetTo(routes.PageDashboard)
		toast := a.showToast(views.Toast{Level: views.ToastSuccess, Text: "Welcome back, " + msg.Session.User.FirstName})
		return a, tea.Batch(cmd, toast, a.startPolling())

	case views.Registered:
		cmd := a.resetTo(routes.PageLogin)
		toast := a.showToast(views.Toast{Level: views.ToastSuccess, Text: "Account created, sign in to continue"})
		return a, tea.Batch(cmd, toast)

	case views.LogoutRequested:
		a.mgr.Logout()
		a.dropAuthedViews()
		a.polling = false
		a.pollGen++
		return a, a.resetTo(routes.PageHome)

	case views.ProfileUpdated:
		if err := a.mgr.UpdateUser(msg.User); err != nil {
			a.log.Error("persist profile", "error", err)
		}
		return a, a.showToast(views.Toast{Level: views.ToastSuccess, Text: "Profile updated"})

	case views.Toast:
		return a, a.showToast(msg)

	case toastExpireMsg:
		if msg.seq == a.toastSeq {
			a.toastText = ""
		}
		return a, nil

	case pollTickMsg:
		if msg.gen != a.pollGen {
			return a, nil
		}
		if !a.mgr.Authenticated() {
			// the chain stops here and restarts on the next login
			a.polling = false
			return a, a.reGuard()
		}
		return a, tea.Batch(a.syncCmd(), a.pollTick())

	case views.NotificationsSynced:
		var cmds []tea.Cmd
		if msg.Fresh {
			cmds = append(cmds, a.showToast(views.Toast{Level: views.ToastInfo, Text: "You have new notifications"}))
		}
		if a.page == routes.PageNotifications && a.notifications != nil {
			_, cmd := a.notifications.Update(msg)
			cmds = append(cmds, cmd)
		}
		if cmd := a.reGuard(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)
	}

	// Everything else goes to the active view only
	var cmd tea.Cmd
	switch a.page {
	case routes.PageHome:
		a.home, cmd = a.home.Update(msg)
	case routes.PageLogin:
		a.login, cmd = a.login.Update(msg)
	case routes.PageRegister:
		a.register, cmd = a.register.Update(msg)
	case routes.PageDashboard:
		if a.dashboard != nil {
			a.dashboard, cmd = a.dashboard.Update(msg)
		}
	case routes.PageNotifications:
		if a.notifications != nil {
			a.notifications, cmd = a.notifications.Update(msg)
		}
	case routes.PageAdmin:
		if a.admin != nil {
			a.admin, cmd = a.admin.Update(msg)
		}
	}

	if guard := a.reGuard(); guard != nil {
		return a, tea.Batch(cmd, guard)
	}
	return a, cmd
}

// ----- view -----

func (a *App) View() string {
	var body string
	switch a.page {
	case routes.PageHome:
		body = a.home.View()
	case routes.PageLogin:
		body = a.login.View()
	case routes.PageRegister:
		body = a.register.View()
	case routes.PageDashboard:
		if a.dashboard != nil {
			body = a.dashboard.View()
		}
	case routes.PageNotifications:
		if a.notifications != nil {
			body = a.notifications.View()
		}
	case routes.PageAdmin:
		if a.admin != nil {
			body = a.admin.View()
		}
	}

	if a.toastText != "" {
		style := a.styles.AlertInfo
		if a.toastLevel == views.ToastSuccess {
			style = a.styles.AlertSuccess
		}
		toast := style.Render(a.toastText)
		body = lipgloss.JoinVertical(lipgloss.Left, toast, body)
	}
	return body
}
