package views

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
	"taskdeck/internal/models"
	"taskdeck/internal/perm"
	"taskdeck/internal/routes"
	"taskdeck/internal/tasks"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

type dashMode int

const (
	dashList dashMode = iota
	dashForm
	dashConfirmDelete
	dashProgress
	dashReports
	dashProfile
)

// DashboardView is the authenticated task list with its create/edit form,
// progress submission and report history overlays.
type DashboardView struct {
	client *api.Client
	rec    *tasks.Reconciler
	user   models.User
	styles *styles.Styles
	keys   keys.KeyMap

	mode    dashMode
	loading bool
	errMsg  string
	cursor  int

	// collaborator candidates for the shared-task form
	users []models.User

	form     taskForm
	deleteID string

	progressFor string
	pContent    textarea.Model
	pFiles      textinput.Model
	pFocus      int
	progressErr string

	reportsFor  string
	reports     models.TaskReports
	reportsErr  string
	loadingReps bool

	pfFirst       textinput.Model
	pfLast        textinput.Model
	pfAvatar      textinput.Model
	pfFocus       int // 0 first, 1 last, 2 avatar path, 3 save
	profileErr    string
	profileSaving bool

	width  int
	height int
}

// taskForm holds the create/edit form state
type taskForm struct {
	editID     string // empty for create
	title      textinput.Model
	desc       textarea.Model
	due        textinput.Model
	priority   models.Priority
	visibility models.Visibility
	assignee   int // index into users, -1 when none
	focus      int // 0 title, 1 desc, 2 due, 3 priority, 4 visibility, 5 assignee, 6 save
	errMsg     string
	saving     bool
}

const formFieldCount = 7

type dashRefreshedMsg struct{ err error }
type usersLoadedMsg struct {
	users []models.User
	err   error
}
type taskActionMsg struct {
	info string
	err  error
}
type reportsLoadedMsg struct {
	data models.TaskReports
	err  error
}

func NewDashboardView(client *api.Client, rec *tasks.Reconciler, user models.User) *DashboardView {
	return &DashboardView{
		client: client,
		rec:    rec,
		user:   user,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
	}
}

func (v *DashboardView) Init() tea.Cmd {
	v.loading = true
	return tea.Batch(v.refreshCmd(), v.loadUsersCmd())
}

func (v *DashboardView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *DashboardView) refreshCmd() tea.Cmd {
	rec := v.rec
	return func() tea.Msg {
		return dashRefreshedMsg{err: rec.Refresh(context.Background())}
	}
}

func (v *DashboardView) loadUsersCmd() tea.Cmd {
	client := v.client
	return func() tea.Msg {
		users, err := client.ListUsersBasic(context.Background())
		return usersLoadedMsg{users: users, err: err}
	}
}

func (v *DashboardView) toggleCmd(id string) tea.Cmd {
	rec := v.rec
	return func() tea.Msg {
		return taskActionMsg{err: rec.ToggleComplete(context.Background(), id)}
	}
}

func (v *DashboardView) deleteCmd(id string) tea.Cmd {
	rec := v.rec
	return func() tea.Msg {
		if err := rec.Delete(context.Background(), id); err != nil {
			return taskActionMsg{err: err}
		}
		return taskActionMsg{info: "Task deleted"}
	}
}

func (v *DashboardView) respondCmd(id string, accept bool) tea.Cmd {
	client := v.client
	rec := v.rec
	return func() tea.Msg {
		var err error
		info := "Invitation declined"
		if accept {
			err = client.AcceptTask(context.Background(), id)
			info = "Invitation accepted"
		} else {
			err = client.DeclineTask(context.Background(), id)
		}
		if err != nil {
			return taskActionMsg{err: err}
		}
		if err := rec.Refresh(context.Background()); err != nil {
			return taskActionMsg{err: err}
		}
		return taskActionMsg{info: info}
	}
}

func (v *DashboardView) loadReportsCmd(id string) tea.Cmd {
	client := v.client
	return func() tea.Msg {
		data, err := client.TaskReports(context.Background(), id)
		return reportsLoadedMsg{data: data, err: err}
	}
}

// collaborators is the user list minus the current user; you cannot share
// a task with yourself.
func (v *DashboardView) collaborators() []models.User {
	var out []models.User
	for _, u := range v.users {
		if u.ID != v.user.ID {
			out = append(out, u)
		}
	}
	return out
}

// userName resolves an id against the loaded user list
func (v *DashboardView) userName(id string) string {
	for _, u := range v.users {
		if u.ID == id {
			return u.FullName()
		}
	}
	return id
}

// selected returns the task under the cursor, if any
func (v *DashboardView) selected() (models.Task, bool) {
	visible := v.rec.Visible()
	if len(visible) == 0 {
		return models.Task{}, false
	}
	i := clamp(v.cursor, 0, len(visible)-1)
	return visible[i], true
}

func (v *DashboardView) Update(msg tea.Msg) (*DashboardView, tea.Cmd) {
	switch msg := msg.(type) {
	case dashRefreshedMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = api.UserMessage(msg.err)
		} else {
			v.errMsg = ""
		}
		v.clampCursor()
		return v, nil

	case usersLoadedMsg:
		if msg.err == nil {
			v.users = msg.users
		}
		return v, nil

	case taskActionMsg:
		if msg.err != nil {
			v.errMsg = api.UserMessage(msg.err)
			v.clampCursor()
			return v, nil
		}
		v.errMsg = ""
		v.clampCursor()
		if msg.info != "" {
			info := msg.info
			return v, func() tea.Msg { return Toast{Level: ToastSuccess, Text: info} }
		}
		return v, nil

	case reportsLoadedMsg:
		v.loadingReps = false
		if msg.err != nil {
			v.reportsErr = api.UserMessage(msg.err)
		} else {
			v.reports = msg.data
			v.reportsErr = ""
		}
		return v, nil

	case formSavedMsg:
		v.form.saving = false
		if msg.err != nil {
			if tasks.IsValidation(msg.err) {
				v.form.errMsg = msg.err.Error()
			} else {
				v.form.errMsg = api.UserMessage(msg.err)
			}
			return v, nil
		}
		v.mode = dashList
		v.clampCursor()
		info := "Task created"
		if msg.edited {
			info = "Task updated"
		}
		return v, func() tea.Msg { return Toast{Level: ToastSuccess, Text: info} }

	case progressSavedMsg:
		if msg.err != nil {
			v.progressErr = api.UserMessage(msg.err)
			return v, nil
		}
		v.mode = dashList
		return v, func() tea.Msg { return Toast{Level: ToastSuccess, Text: "Progress submitted"} }

	case profileSavedMsg:
		v.profileSaving = false
		if msg.err != nil {
			v.profileErr = api.UserMessage(msg.err)
			return v, nil
		}
		v.user = msg.user
		v.mode = dashList
		user := msg.user
		return v, func() tea.Msg { return ProfileUpdated{User: user} }

	case tea.KeyMsg:
		switch v.mode {
		case dashForm:
			return v.updateForm(msg)
		case dashConfirmDelete:
			return v.updateConfirm(msg)
		case dashProgress:
			return v.updateProgress(msg)
		case dashProfile:
			return v.updateProfile(msg)
		case dashReports:
			if key.Matches(msg, v.keys.Back) || key.Matches(msg, v.keys.Enter) {
				v.mode = dashList
			}
			return v, nil
		}
		return v.updateList(msg)
	}

	return v, nil
}

func (v *DashboardView) clampCursor() {
	visible := v.rec.Visible()
	if len(visible) == 0 {
		v.cursor = 0
		return
	}
	v.cursor = clamp(v.cursor, 0, len(visible)-1)
}

func (v *DashboardView) updateList(msg tea.KeyMsg) (*DashboardView, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		v.cursor = clamp(v.cursor-1, 0, maxInt(len(v.rec.Visible())-1, 0))
	case key.Matches(msg, v.keys.Down):
		v.cursor = clamp(v.cursor+1, 0, maxInt(len(v.rec.Visible())-1, 0))
	case key.Matches(msg, v.keys.PrevPage):
		v.rec.PrevPage()
		v.cursor = 0
	case key.Matches(msg, v.keys.NextPage):
		v.rec.NextPage()
		v.cursor = 0
	case key.Matches(msg, v.keys.Section):
		v.rec.SetSection(nextSection(v.rec.Section()))
		v.cursor = 0
	case key.Matches(msg, v.keys.Filter):
		v.rec.SetStatus(nextStatus(v.rec.Status()))
		v.cursor = 0
	case key.Matches(msg, v.keys.Refresh):
		v.loading = true
		return v, v.refreshCmd()
	case key.Matches(msg, v.keys.New):
		v.openForm(nil)
	case key.Matches(msg, v.keys.Edit):
		if t, ok := v.selected(); ok && perm.CanEdit(t, v.user.ID, v.user.Role) {
			v.openForm(&t)
		}
	case key.Matches(msg, v.keys.Delete):
		if t, ok := v.selected(); ok && perm.CanDelete(t, v.user.ID, v.user.Role) {
			v.deleteID = t.ID
			v.mode = dashConfirmDelete
		}
	case msg.String() == " ":
		if t, ok := v.selected(); ok && perm.CanToggleComplete(t, v.user.ID, v.user.Role) {
			return v, v.toggleCmd(t.ID)
		}
	case msg.String() == "a":
		if t, ok := v.selected(); ok && perm.CanRespondToInvitation(t, v.user.ID) {
			return v, v.respondCmd(t.ID, true)
		}
	case msg.String() == "x":
		if t, ok := v.selected(); ok && perm.CanRespondToInvitation(t, v.user.ID) {
			return v, v.respondCmd(t.ID, false)
		}
	case msg.String() == "p":
		if t, ok := v.selected(); ok && perm.CanSubmitProgress(t, v.user.ID) {
			v.openProgress(t.ID)
		}
	case msg.String() == "v":
		if t, ok := v.selected(); ok && perm.CanViewReports(t, v.user.ID) {
			v.reportsFor = t.ID
			v.reports = models.TaskReports{}
			v.reportsErr = ""
			v.loadingReps = true
			v.mode = dashReports
			return v, v.loadReportsCmd(t.ID)
		}
	case msg.String() == "u":
		v.openProfile()
	case msg.String() == "b":
		return v, func() tea.Msg { return Navigate{Page: routes.PageNotifications} }
	case msg.String() == "ctrl+a":
		if v.user.Role == models.RoleAdmin {
			return v, func() tea.Msg { return Navigate{Page: routes.PageAdmin} }
		}
	case msg.String() == "ctrl+l":
		return v, func() tea.Msg { return LogoutRequested{} }
	}
	return v, nil
}

func (v *DashboardView) updateConfirm(msg tea.KeyMsg) (*DashboardView, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		id := v.deleteID
		v.deleteID = ""
		v.mode = dashList
		return v, v.deleteCmd(id)
	case "n", "esc":
		v.deleteID = ""
		v.mode = dashList
	}
	return v, nil
}

func nextSection(s tasks.Section) tasks.Section {
	switch s {
	case tasks.SectionPersonal:
		return tasks.SectionShared
	case tasks.SectionShared:
		return tasks.SectionAssigned
	default:
		return tasks.SectionPersonal
	}
}

func nextStatus(f tasks.StatusFilter) tasks.StatusFilter {
	switch f {
	case tasks.StatusAll:
		return tasks.StatusPending
	case tasks.StatusPending:
		return tasks.StatusCompleted
	default:
		return tasks.StatusAll
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ----- create/edit form -----

type formSavedMsg struct {
	edited bool
	err    error
}

func (v *DashboardView) openForm(t *models.Task) {
	title := textinput.New()
	title.Placeholder = "title"
	title.CharLimit = 200
	title.Focus()

	desc := textarea.New()
	desc.Placeholder = "description"
	desc.SetHeight(3)
	desc.CharLimit = 2000

	due := textinput.New()
	due.Placeholder = "due date (YYYY-MM-DD, optional)"
	due.CharLimit = 10

	v.form = taskForm{
		priority:   models.PriorityMedium,
		visibility: models.VisibilityPersonal,
		assignee:   -1,
		title:      title,
		desc:       desc,
		due:        due,
	}

	if t != nil {
		v.form.editID = t.ID
		v.form.title.SetValue(t.Title)
		v.form.desc.SetValue(t.Description)
		if t.DueDate != nil {
			v.form.due.SetValue(t.DueDate.Local().Format("2006-01-02"))
		}
		v.form.priority = t.EffectivePriority()
		if t.Visibility != "" {
			v.form.visibility = t.Visibility
		}
		if len(t.AssignedTo) > 0 {
			for i, u := range v.collaborators() {
				if u.ID == t.AssignedTo[0] {
					v.form.assignee = i
					break
				}
			}
		}
	}
	v.mode = dashForm
}

func (v *DashboardView) formMoveFocus(delta int) {
	f := &v.form
	f.focus = (f.focus + delta + formFieldCount) % formFieldCount
	// the assignee field only applies to shared tasks
	if f.focus == 5 && f.visibility != models.VisibilityShared {
		f.focus = (f.focus + delta + formFieldCount) % formFieldCount
	}
	f.title.Blur()
	f.desc.Blur()
	f.due.Blur()
	switch f.focus {
	case 0:
		f.title.Focus()
	case 1:
		f.desc.Focus()
	case 2:
		f.due.Focus()
	}
}

func (v *DashboardView) saveFormCmd() tea.Cmd {
	f := &v.form

	draft := models.TaskDraft{
		Title:       strings.TrimSpace(f.title.Value()),
		Description: strings.TrimSpace(f.desc.Value()),
		Priority:    f.priority,
		Visibility:  f.visibility,
	}
	if raw := strings.TrimSpace(f.due.Value()); raw != "" {
		due, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			f.errMsg = "Due date must look like 2026-01-31"
			return nil
		}
		draft.DueDate = &due
	}
	if candidates := v.collaborators(); f.visibility == models.VisibilityShared &&
		f.assignee >= 0 && f.assignee < len(candidates) {
		draft.AssignedTo = models.UserIDs{candidates[f.assignee].ID}
	}

	f.saving = true
	f.errMsg = ""
	rec := v.rec
	editID := f.editID
	return func() tea.Msg {
		var err error
		if editID == "" {
			err = rec.Create(context.Background(), draft)
		} else {
			err = rec.Update(context.Background(), editID, draft)
		}
		return formSavedMsg{edited: editID != "", err: err}
	}
}

func (v *DashboardView) updateForm(msg tea.KeyMsg) (*DashboardView, tea.Cmd) {
	f := &v.form
	if f.saving {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = dashList
		return v, nil
	case key.Matches(msg, v.keys.Tab):
		v.formMoveFocus(1)
		return v, nil
	case msg.String() == "shift+tab":
		v.formMoveFocus(-1)
		return v, nil
	case key.Matches(msg, v.keys.Enter) && f.focus == 6:
		return v, v.saveFormCmd()
	}

	switch f.focus {
	case 3: // priority
		switch msg.String() {
		case "left", "h":
			f.priority = prevPriority(f.priority)
		case "right", "l", " ":
			f.priority = nextPriority(f.priority)
		}
		return v, nil
	case 4: // visibility
		switch msg.String() {
		case "left", "right", "h", "l", " ":
			if f.visibility == models.VisibilityPersonal {
				f.visibility = models.VisibilityShared
			} else {
				f.visibility = models.VisibilityPersonal
				f.assignee = -1
			}
		}
		return v, nil
	case 5: // assignee
		n := len(v.collaborators())
		switch msg.String() {
		case "left", "h":
			f.assignee = clamp(f.assignee-1, -1, n-1)
		case "right", "l", " ":
			f.assignee = clamp(f.assignee+1, -1, n-1)
		}
		return v, nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case 0:
		f.title, cmd = f.title.Update(msg)
	case 1:
		f.desc, cmd = f.desc.Update(msg)
	case 2:
		f.due, cmd = f.due.Update(msg)
	}
	return v, cmd
}

func nextPriority(p models.Priority) models.Priority {
	switch p {
	case models.PriorityLow:
		return models.PriorityMedium
	case models.PriorityMedium:
		return models.PriorityHigh
	default:
		return models.PriorityLow
	}
}

func prevPriority(p models.Priority) models.Priority {
	switch p {
	case models.PriorityHigh:
		return models.PriorityMedium
	case models.PriorityMedium:
		return models.PriorityLow
	default:
		return models.PriorityHigh
	}
}

// ----- progress submission -----

type progressSavedMsg struct{ err error }

func (v *DashboardView) openProgress(taskID string) {
	content := textarea.New()
	content.Placeholder = "what did you get done?"
	content.SetHeight(4)
	content.CharLimit = 4000
	content.Focus()

	files := textinput.New()
	files.Placeholder = "attachment paths, comma separated (optional)"
	files.CharLimit = 500

	v.progressFor = taskID
	v.pContent = content
	v.pFiles = files
	v.pFocus = 0
	v.progressErr = ""
	v.mode = dashProgress
}

func (v *DashboardView) submitProgressCmd() tea.Cmd {
	content := strings.TrimSpace(v.pContent.Value())
	if content == "" {
		v.progressErr = "Describe your progress before submitting"
		return nil
	}

	var paths []string
	for _, p := range strings.Split(v.pFiles.Value(), ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) > api.MaxUploadFiles {
		v.progressErr = fmt.Sprintf("At most %d attachments are allowed", api.MaxUploadFiles)
		return nil
	}

	client := v.client
	taskID := v.progressFor
	v.progressErr = ""
	return func() tea.Msg {
		var uploads []api.Upload
		for _, p := range paths {
			data, err := os.ReadFile(p)
			if err != nil {
				return progressSavedMsg{err: fmt.Errorf("read %s: %w", p, err)}
			}
			if len(data) > api.MaxUploadFileSize {
				return progressSavedMsg{err: fmt.Errorf("%s exceeds the 5 MB attachment limit", filepath.Base(p))}
			}
			uploads = append(uploads, api.Upload{Name: filepath.Base(p), Data: data})
		}
		err := client.SubmitProgress(context.Background(), taskID, content, uploads)
		return progressSavedMsg{err: err}
	}
}

func (v *DashboardView) updateProgress(msg tea.KeyMsg) (*DashboardView, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = dashList
		return v, nil
	case key.Matches(msg, v.keys.Tab):
		v.pFocus = (v.pFocus + 1) % 3
		v.pContent.Blur()
		v.pFiles.Blur()
		switch v.pFocus {
		case 0:
			v.pContent.Focus()
		case 1:
			v.pFiles.Focus()
		}
		return v, nil
	case key.Matches(msg, v.keys.Enter) && v.pFocus == 2:
		return v, v.submitProgressCmd()
	}

	var cmd tea.Cmd
	switch v.pFocus {
	case 0:
		v.pContent, cmd = v.pContent.Update(msg)
	case 1:
		v.pFiles, cmd = v.pFiles.Update(msg)
	}
	return v, cmd
}

// ----- profile editing -----

type profileSavedMsg struct {
	user models.User
	err  error
}

func (v *DashboardView) openProfile() {
	first := textinput.New()
	first.Placeholder = "first name"
	first.CharLimit = 120
	first.SetValue(v.user.FirstName)
	first.Focus()

	last := textinput.New()
	last.Placeholder = "last name"
	last.CharLimit = 120
	last.SetValue(v.user.LastName)

	avatar := textinput.New()
	avatar.Placeholder = "avatar image path (optional)"
	avatar.CharLimit = 500

	v.pfFirst = first
	v.pfLast = last
	v.pfAvatar = avatar
	v.pfFocus = 0
	v.profileErr = ""
	v.profileSaving = false
	v.mode = dashProfile
}

// saveProfileCmd uploads the avatar first when a path is given, then sends
// the profile update carrying the stored avatar url.
func (v *DashboardView) saveProfileCmd() tea.Cmd {
	first := strings.TrimSpace(v.pfFirst.Value())
	last := strings.TrimSpace(v.pfLast.Value())
	if first == "" || last == "" {
		v.profileErr = "First and last name are required"
		return nil
	}

	avatarPath := strings.TrimSpace(v.pfAvatar.Value())
	currentAvatar := v.user.AvatarURL
	client := v.client
	v.profileSaving = true
	v.profileErr = ""
	return func() tea.Msg {
		avatarURL := currentAvatar
		if avatarPath != "" {
			data, err := os.ReadFile(avatarPath)
			if err != nil {
				return profileSavedMsg{err: fmt.Errorf("read %s: %w", avatarPath, err)}
			}
			url, err := client.UploadAvatar(context.Background(), api.Upload{
				Name: filepath.Base(avatarPath),
				Data: data,
			})
			if err != nil {
				return profileSavedMsg{err: err}
			}
			avatarURL = url
		}
		user, err := client.UpdateProfile(context.Background(), first, last, avatarURL)
		return profileSavedMsg{user: user, err: err}
	}
}

func (v *DashboardView) updateProfile(msg tea.KeyMsg) (*DashboardView, tea.Cmd) {
	if v.profileSaving {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = dashList
		return v, nil
	case key.Matches(msg, v.keys.Tab):
		v.pfFocus = (v.pfFocus + 1) % 4
	case msg.String() == "shift+tab":
		v.pfFocus = (v.pfFocus + 3) % 4
	case key.Matches(msg, v.keys.Enter) && v.pfFocus == 3:
		return v, v.saveProfileCmd()
	default:
		var cmd tea.Cmd
		switch v.pfFocus {
		case 0:
			v.pfFirst, cmd = v.pfFirst.Update(msg)
		case 1:
			v.pfLast, cmd = v.pfLast.Update(msg)
		case 2:
			v.pfAvatar, cmd = v.pfAvatar.Update(msg)
		}
		return v, cmd
	}

	v.pfFirst.Blur()
	v.pfLast.Blur()
	v.pfAvatar.Blur()
	switch v.pfFocus {
	case 0:
		v.pfFirst.Focus()
	case 1:
		v.pfLast.Focus()
	case 2:
		v.pfAvatar.Focus()
	}
	return v, nil
}

func (v *DashboardView) viewProfile() string {
	s := v.styles

	input := func(view string, focused bool) string {
		if focused {
			return s.InputFocused.Render(view)
		}
		return s.Input.Render(view)
	}

	save := s.Button.Render("Save")
	if v.profileSaving {
		save = s.Button.Render("Saving...")
	} else if v.pfFocus == 3 {
		save = s.ButtonFocused.Render("Save")
	}

	var b []string
	b = append(b, s.Title.Render("Edit profile"), "")
	if v.profileErr != "" {
		b = append(b, s.AlertError.Render(v.profileErr), "")
	}
	if v.user.AvatarURL != "" {
		b = append(b, s.TitleMuted.Render("avatar: "+v.client.AssetURL(v.user.AvatarURL)), "")
	}
	b = append(b,
		input(v.pfFirst.View(), v.pfFocus == 0),
		input(v.pfLast.View(), v.pfFocus == 1),
		input(v.pfAvatar.View(), v.pfFocus == 2),
		"",
		save,
		helpLine(s, "tab", "next field", "↵", "save", "esc", "cancel"),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, b...)
	return styles.CenterView(content, v.width, v.height)
}

// ----- rendering -----

func (v *DashboardView) View() string {
	switch v.mode {
	case dashForm:
		return v.viewForm()
	case dashConfirmDelete:
		return v.viewConfirm()
	case dashProgress:
		return v.viewProgress()
	case dashReports:
		return v.viewReports()
	case dashProfile:
		return v.viewProfile()
	}
	return v.viewList()
}

func (v *DashboardView) viewList() string {
	s := v.styles
	width := styles.ContentWidth(v.width)

	total, completed, pending := v.rec.Stats()
	header := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Tasks")+"  "+s.TitleMuted.Render("hi, "+v.user.FirstName),
		s.StatusBar.Render(fmt.Sprintf("%s · %s · %s · %d total, %d done, %d open, %d assigned to me",
			v.rec.Section(), v.rec.Status(),
			pageIndicator(v.rec.Page(), v.rec.TotalPages()),
			total, completed, pending, len(v.rec.AssignedToMe()))),
	)

	var body []string
	body = append(body, header, "")
	if v.errMsg != "" {
		body = append(body, s.AlertError.Render(v.errMsg), "")
	}

	visible := v.rec.Visible()
	if v.loading && len(visible) == 0 {
		body = append(body, s.TitleMuted.Render("loading tasks..."))
	} else if len(visible) == 0 {
		body = append(body, s.TitleMuted.Render("nothing here. press n to add a task"))
	}

	for i, t := range visible {
		line := v.renderTask(t, i == clamp(v.cursor, 0, maxInt(len(visible)-1, 0)), width)
		body = append(body, line)
	}

	body = append(body, v.listHelp())

	content := lipgloss.JoinVertical(lipgloss.Left, body...)
	return styles.CenterView(content, v.width, v.height)
}

func (v *DashboardView) renderTask(t models.Task, selected bool, width int) string {
	s := v.styles

	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	title := truncate(t.Title, width-30)

	parts := []string{check, title, priorityBadge(s, t.EffectivePriority())}
	if t.DueDate != nil {
		parts = append(parts, s.TitleMuted.Render("due "+formatDay(*t.DueDate)))
	}
	if t.Visibility == models.VisibilityShared && len(t.AssignedTo) > 0 {
		parts = append(parts, s.TitleMuted.Render("→ "+v.userName(t.AssignedTo[0])))
	}
	if t.AssignedTo.Contains(v.user.ID) {
		parts = append(parts, participationBadge(s, t.EffectiveParticipation()))
	}
	if t.IsProject() {
		parts = append(parts, progressBar(t.Progress, 10)+fmt.Sprintf(" %d%%", clamp(t.Progress, 0, 100)))
	}

	line := strings.Join(parts, " ")
	if selected {
		return s.ListSelected.Render(line)
	}
	return s.ListItem.Render(line)
}

// listHelp shows only the actions the selected task actually allows
func (v *DashboardView) listHelp() string {
	s := v.styles
	pairs := []string{"s", "section", "f", "filter", "←/→", "page", "n", "new", "r", "refresh"}
	if t, ok := v.selected(); ok {
		if perm.CanToggleComplete(t, v.user.ID, v.user.Role) {
			pairs = append(pairs, "space", "toggle")
		}
		if perm.CanEdit(t, v.user.ID, v.user.Role) {
			pairs = append(pairs, "e", "edit")
		}
		if perm.CanDelete(t, v.user.ID, v.user.Role) {
			pairs = append(pairs, "d", "delete")
		}
		if perm.CanRespondToInvitation(t, v.user.ID) {
			pairs = append(pairs, "a", "accept", "x", "decline")
		}
		if perm.CanSubmitProgress(t, v.user.ID) {
			pairs = append(pairs, "p", "progress")
		}
		if perm.CanViewReports(t, v.user.ID) {
			pairs = append(pairs, "v", "reports")
		}
	}
	pairs = append(pairs, "u", "profile", "b", "inbox", "ctrl+l", "logout")
	if v.user.Role == models.RoleAdmin {
		pairs = append(pairs, "ctrl+a", "admin")
	}
	return helpLine(s, pairs...)
}

func (v *DashboardView) viewForm() string {
	s := v.styles
	f := &v.form

	input := func(view string, focused bool) string {
		if focused {
			return s.InputFocused.Render(view)
		}
		return s.Input.Render(view)
	}
	choice := func(label string, focused bool) string {
		if focused {
			return s.ButtonFocused.Render(label)
		}
		return s.Button.Render(label)
	}

	title := "New task"
	if f.editID != "" {
		title = "Edit task"
	}

	assigneeLabel := "assignee: none"
	if candidates := v.collaborators(); f.assignee >= 0 && f.assignee < len(candidates) {
		assigneeLabel = "assignee: " + candidates[f.assignee].FullName()
	}

	var b []string
	b = append(b, s.Title.Render(title), "")
	if f.errMsg != "" {
		b = append(b, s.AlertError.Render(f.errMsg), "")
	}
	b = append(b,
		input(f.title.View(), f.focus == 0),
		input(f.desc.View(), f.focus == 1),
		input(f.due.View(), f.focus == 2),
		choice("priority: "+string(f.priority), f.focus == 3),
		choice("visibility: "+string(f.visibility), f.focus == 4),
	)
	if f.visibility == models.VisibilityShared {
		b = append(b, choice(assigneeLabel, f.focus == 5))
	}

	save := "Save"
	if f.saving {
		save = "Saving..."
	}
	b = append(b, "", choice(save, f.focus == 6),
		helpLine(s, "tab", "next field", "←/→", "change value", "↵", "save", "esc", "cancel"))

	content := lipgloss.JoinVertical(lipgloss.Left, b...)
	return styles.CenterView(content, v.width, v.height)
}

func (v *DashboardView) viewConfirm() string {
	s := v.styles
	name := v.deleteID
	if t, ok := v.rec.Get(v.deleteID); ok {
		name = t.Title
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Delete task"),
		"",
		s.Panel.Render("Delete "+truncate(name, 50)+"? This cannot be undone."),
		"",
		helpLine(s, "y", "delete", "n", "keep"),
	)
	return styles.CenterView(content, v.width, v.height)
}

func (v *DashboardView) viewProgress() string {
	s := v.styles

	input := func(view string, focused bool) string {
		if focused {
			return s.InputFocused.Render(view)
		}
		return s.Input.Render(view)
	}

	submit := s.Button.Render("Submit")
	if v.pFocus == 2 {
		submit = s.ButtonFocused.Render("Submit")
	}

	var b []string
	b = append(b, s.Title.Render("Submit progress"), "")
	if v.progressErr != "" {
		b = append(b, s.AlertError.Render(v.progressErr), "")
	}
	b = append(b,
		input(v.pContent.View(), v.pFocus == 0),
		input(v.pFiles.View(), v.pFocus == 1),
		s.TitleMuted.Render(fmt.Sprintf("up to %d files, %d MB each", api.MaxUploadFiles, api.MaxUploadFileSize>>20)),
		"",
		submit,
		helpLine(s, "tab", "next field", "↵", "submit", "esc", "cancel"),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, b...)
	return styles.CenterView(content, v.width, v.height)
}

func (v *DashboardView) viewReports() string {
	s := v.styles

	var b []string
	title := "Progress reports"
	if v.reports.Task != nil {
		title += " · " + truncate(v.reports.Task.Title, 40)
	}
	b = append(b, s.Title.Render(title), "")

	switch {
	case v.loadingReps:
		b = append(b, s.TitleMuted.Render("loading reports..."))
	case v.reportsErr != "":
		b = append(b, s.AlertError.Render(v.reportsErr))
	case len(v.reports.Reports) == 0:
		b = append(b, s.TitleMuted.Render("no reports yet"))
	default:
		for _, r := range v.reports.Reports {
			lines := []string{
				reportBadge(s, r.Status) + " " + s.TitleMuted.Render(formatDate(r.CreatedAt)),
				truncate(r.Content, 70),
			}
			if r.ReviewComment != "" {
				lines = append(lines, s.TitleMuted.Render("review: "+truncate(r.ReviewComment, 60)))
			}
			for _, a := range r.Attachments {
				lines = append(lines, s.TitleMuted.Render("· "+a.DisplayName()+"  "+v.client.AssetURL(a.URL)))
			}
			b = append(b, s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
		}
	}

	if v.reports.Task != nil && len(v.reports.Task.ParticipationLogs) > 0 {
		b = append(b, "", s.TitleMuted.Render("participation"))
		for _, p := range v.reports.Task.ParticipationLogs {
			name := p.UserName
			if name == "" {
				name = v.userName(p.UserID)
			}
			b = append(b, s.ListItem.Render(
				participationBadge(s, p.Status)+" "+name+" "+s.TitleMuted.Render(formatDate(p.At))))
		}
	}

	b = append(b, helpLine(s, "esc", "close"))
	content := lipgloss.JoinVertical(lipgloss.Left, b...)
	return styles.CenterView(content, v.width, v.height)
}
