package views

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
	"taskdeck/internal/models"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

type adminTab int

const (
	adminUsers adminTab = iota
	adminProjects
	adminTasks
	adminStats
)

func (t adminTab) String() string {
	switch t {
	case adminUsers:
		return "users"
	case adminProjects:
		return "projects"
	case adminTasks:
		return "tasks"
	default:
		return "stats"
	}
}

type adminMode int

const (
	adminBrowse adminMode = iota
	adminConfirmUserDelete
	adminResetPassword
	adminProjectForm
	adminConfirmProjectDelete
	adminMembers
	adminAssign
	adminReports
	adminReview
	adminProjectTask
)

// AdminView is the management console: user administration, projects with
// membership, the full task table with assignment, and progress review.
type AdminView struct {
	client *api.Client
	styles *styles.Styles
	keys   keys.KeyMap

	tab  adminTab
	mode adminMode

	users    []models.User
	userList list.Model
	projects []models.Project
	allTasks []models.Task
	stats    models.TeamStats

	projCursor int
	taskCursor int

	targetUserID  string
	passwordInput textinput.Model

	projForm projectForm
	taskForm projectTaskForm

	memberProjectID string
	memberCursor    int
	memberSet       map[string]bool

	assignTaskID string
	assignCursor int

	reviewTaskID string
	reports      models.TaskReports
	reportCursor int
	loadingReps  bool
	review       reviewForm

	loading bool
	errMsg  string

	width  int
	height int
}

// projectForm is the create-project dialog state
type projectForm struct {
	inputs []textinput.Model // name, description, max members, start, end
	focus  int               // len(inputs) is the member picker, +1 is save
	cursor int               // member picker position
	set    map[string]bool
	errMsg string
	saving bool
}

// projectTaskForm creates a task inside a project, optionally with
// attachments and an initial assignee
type projectTaskForm struct {
	projectID string
	inputs    []textinput.Model // title, description, due, attachment paths
	priority  models.Priority
	assignee  int // index into users, -1 when none
	focus     int // inputs, then priority, assignee, save
	errMsg    string
	saving    bool
}

// reviewForm is the approve/reject dialog for one report
type reviewForm struct {
	reportID string
	approve  bool
	comment  textinput.Model
	progress textinput.Model
	focus    int // 0 decision, 1 comment, 2 progress, 3 submit
	errMsg   string
}

type adminDataMsg struct {
	users    []models.User
	projects []models.Project
	tasks    []models.Task
	stats    models.TeamStats
	err      error
}

type adminActionMsg struct {
	info string
	err  error
}

type adminReportsMsg struct {
	data models.TaskReports
	err  error
}

type userItem struct{ u models.User }

func (i userItem) Title() string       { return i.u.FullName() }
func (i userItem) Description() string { return i.u.Email + " · " + string(i.u.Role) }
func (i userItem) FilterValue() string { return i.u.FullName() + " " + i.u.Email }

func NewAdminView(client *api.Client) *AdminView {
	delegate := list.NewDefaultDelegate()
	ul := list.New(nil, delegate, 0, 0)
	ul.SetShowTitle(false)
	ul.SetShowHelp(false)
	ul.SetShowStatusBar(false)
	ul.SetFilteringEnabled(false)

	return &AdminView{
		client:   client,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		userList: ul,
	}
}

func (v *AdminView) Init() tea.Cmd {
	v.loading = true
	return v.loadCmd()
}

func (v *AdminView) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.userList.SetSize(styles.ContentWidth(width)-4, maxInt(height-8, 6))
}

func (v *AdminView) loadCmd() tea.Cmd {
	client := v.client
	return func() tea.Msg {
		ctx := context.Background()
		users, err := client.AdminListUsers(ctx)
		if err != nil {
			return adminDataMsg{err: err}
		}
		projects, err := client.ListProjects(ctx)
		if err != nil {
			return adminDataMsg{err: err}
		}
		tasks, err := client.AdminListAllTasks(ctx)
		if err != nil {
			return adminDataMsg{err: err}
		}
		stats, err := client.AdminTeamStats(ctx)
		if err != nil {
			return adminDataMsg{err: err}
		}
		return adminDataMsg{users: users, projects: projects, tasks: tasks, stats: stats}
	}
}

func (v *AdminView) action(info string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(context.Background()); err != nil {
			return adminActionMsg{err: err}
		}
		return adminActionMsg{info: info}
	}
}

func (v *AdminView) userName(id string) string {
	for _, u := range v.users {
		if u.ID == id {
			return u.FullName()
		}
	}
	return id
}

func (v *AdminView) projectName(id string) string {
	for _, p := range v.projects {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}

func (v *AdminView) selectedUser() (models.User, bool) {
	item, ok := v.userList.SelectedItem().(userItem)
	if !ok {
		return models.User{}, false
	}
	return item.u, true
}

func (v *AdminView) selectedProject() (models.Project, bool) {
	if len(v.projects) == 0 {
		return models.Project{}, false
	}
	return v.projects[clamp(v.projCursor, 0, len(v.projects)-1)], true
}

func (v *AdminView) selectedTask() (models.Task, bool) {
	if len(v.allTasks) == 0 {
		return models.Task{}, false
	}
	return v.allTasks[clamp(v.taskCursor, 0, len(v.allTasks)-1)], true
}

func (v *AdminView) Update(msg tea.Msg) (*AdminView, tea.Cmd) {
	switch msg := msg.(type) {
	case adminDataMsg:
		v.loading = false
		if msg.err != nil {
			v.errMsg = api.UserMessage(msg.err)
			return v, nil
		}
		v.errMsg = ""
		v.users = msg.users
		v.projects = msg.projects
		v.allTasks = msg.tasks
		v.stats = msg.stats
		items := make([]list.Item, len(msg.users))
		for i, u := range msg.users {
			items[i] = userItem{u: u}
		}
		v.projCursor = clamp(v.projCursor, 0, maxInt(len(v.projects)-1, 0))
		v.taskCursor = clamp(v.taskCursor, 0, maxInt(len(v.allTasks)-1, 0))
		return v, v.userList.SetItems(items)

	case adminActionMsg:
		if msg.err != nil {
			v.errMsg = api.UserMessage(msg.err)
			return v, nil
		}
		v.errMsg = ""
		cmds := []tea.Cmd{v.loadCmd()}
		if msg.info != "" {
			info := msg.info
			cmds = append(cmds, func() tea.Msg { return Toast{Level: ToastSuccess, Text: info} })
		}
		return v, tea.Batch(cmds...)

	case adminReportsMsg:
		v.loadingReps = false
		if msg.err != nil {
			v.errMsg = api.UserMessage(msg.err)
			v.mode = adminBrowse
			return v, nil
		}
		v.reports = msg.data
		v.reportCursor = 0
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case adminConfirmUserDelete:
			return v.updateConfirmUser(msg)
		case adminResetPassword:
			return v.updateResetPassword(msg)
		case adminProjectForm:
			return v.updateProjectForm(msg)
		case adminConfirmProjectDelete:
			return v.updateConfirmProject(msg)
		case adminMembers:
			return v.updateMembers(msg)
		case adminAssign:
			return v.updateAssign(msg)
		case adminReports:
			return v.updateReports(msg)
		case adminReview:
			return v.updateReview(msg)
		case adminProjectTask:
			return v.updateProjectTask(msg)
		}
		return v.updateBrowse(msg)
	}

	return v, nil
}

func (v *AdminView) updateBrowse(msg tea.KeyMsg) (*AdminView, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return NavigateBack{} }
	case key.Matches(msg, v.keys.Tab):
		v.tab = (v.tab + 1) % 4
		return v, nil
	case msg.String() == "1", msg.String() == "2", msg.String() == "3", msg.String() == "4":
		v.tab = adminTab(int(msg.String()[0] - '1'))
		return v, nil
	case key.Matches(msg, v.keys.Refresh):
		v.loading = true
		return v, v.loadCmd()
	}

	switch v.tab {
	case adminUsers:
		return v.updateUsersTab(msg)
	case adminProjects:
		return v.updateProjectsTab(msg)
	case adminTasks:
		return v.updateTasksTab(msg)
	}
	return v, nil
}

// ----- users tab -----

func (v *AdminView) updateUsersTab(msg tea.KeyMsg) (*AdminView, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Delete):
		if u, ok := v.selectedUser(); ok {
			v.targetUserID = u.ID
			v.mode = adminConfirmUserDelete
		}
		return v, nil
	case msg.String() == "p":
		if u, ok := v.selectedUser(); ok {
			v.targetUserID = u.ID
			in := textinput.New()
			in.Placeholder = "new password (min 6 chars)"
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
			in.CharLimit = 120
			in.Focus()
			v.passwordInput = in
			v.mode = adminResetPassword
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.userList, cmd = v.userList.Update(msg)
	return v, cmd
}

func (v *AdminView) updateConfirmUser(msg tea.KeyMsg) (*AdminView, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		id := v.targetUserID
		v.targetUserID = ""
		v.mode = adminBrowse
		client := v.client
		return v, v.action("User deleted", func(ctx context.Context) error {
			return client.AdminDeleteUser(ctx, id)
		})
	case "n", "esc":
		v.targetUserID = ""
		v.mode = adminBrowse
	}
	return v, nil
}

func (v *AdminView) updateResetPassword(msg tea.KeyMsg) (*AdminView, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = adminBrowse
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		password := v.passwordInput.Value()
		if len(password) < minPasswordLen {
			v.errMsg = "Password must be at least 6 characters"
			return v, nil
		}
		id := v.targetUserID
		v.targetUserID = ""
		v.mode = adminBrowse
		v.errMsg = ""
		client := v.client
		return v, v.action("Password reset", func(ctx context.Context) error {
			return client.AdminResetPassword(ctx, id, password)
		})
	}
	var cmd tea.Cmd
	v.passwordInput, cmd = v.passwordInput.Update(msg)
	return v, cmd
}

// ----- projects tab -----

func (v *AdminView) updateProjectsTab(msg tea.KeyMsg) (*AdminView, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		v.projCursor = clamp(v.projCursor-1, 0, maxInt(len(v.projects)-1, 0))
	case key.Matches(msg, v.keys.Down):
		v.projCursor = clamp(v.projCursor+1, 0, maxInt(len(v.projects)-1, 0))
	case key.Matches(msg, v.keys.New):
		v.openProjectForm()
	case key.Matches(msg, v.keys.Delete):
		if _, ok := v.selectedProject(); ok {
			v.mode = adminConfirmProjectDelete
		}
	case msg.String() == "m":
		if p, ok := v.selectedProject(); ok {
			v.memberProjectID = p.ID
			v.memberCursor = 0
			v.memberSet = map[string]bool{}
			for _, id := range p.Members {
				v.memberSet[id] = true
			}
			v.mode = adminMembers
		}
	case msg.String() == "t":
		if p, ok := v.selectedProject(); ok {
			v.openProjectTaskForm(p.ID)
		}
	}
	return v, nil
}

func (v *AdminView) openProjectForm() {
	mk := func(placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		return in
	}
	inputs := []textinput.Model{
		mk("project name", 120),
		mk("description (optional)", 500),
		mk("max members (optional)", 4),
		mk("start date YYYY-MM-DD (optional)", 10),
		mk("end date YYYY-MM-DD (optional)", 10),
	}
	inputs[0].Focus()
	v.projForm = projectForm{inputs: inputs, set: map[string]bool{}}
	v.mode = adminProjectForm
}

func (v *AdminView) updateProjectForm(msg tea.KeyMsg) (*AdminView, tea.Cmd) {
	f := &v.projForm
	if f.saving {
		return v, nil
	}
	n := len(f.inputs) + 2 // inputs, member picker, save

	setFocus := func(i int) {
		f.focus = (i + n) % n
		for j := range f.inputs {
			if j == f.focus {
				f.inputs[j].Focus()
			} else {
				f.inputs[j].Blur()
			}
		}
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = adminBrowse
		return v, nil
	case key.Matches(msg, v.keys.Tab):
		setFocus(f.focus + 1)
		return v, nil
	case msg.String() == "shift+tab":
		setFocus(f.focus - 1)
		return v, nil
	case key.Matches(msg, v.keys.Enter) && f.focus == n-1:
		return v, v.saveProjectCmd()
	}

	if f.focus == len(f.inputs) { // member picker
		switch msg.String() {
		case "up", "k":
			f.cursor = clamp(f.cursor-1, 0, maxInt(len(v.users)-1, 0))
		case "down", "j":
			f.cursor = clamp(f.cursor+1, 0, maxInt(len(v.users)-1, 0))
		case " ":
			if f.cursor < len(v.users) {
				id := v.users[f.cursor].ID
				f.set[id] = !f.set[id]
			}
		}
		return v, nil
	}

	if f.focus < len(f.inputs) {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *AdminView) saveProjectCmd() tea.Cmd {
	f := &v.projForm
	name := strings.TrimSpace(f.inputs[0].Value())
	if name == "" {
		f.errMsg = "Project name is required"
		return nil
	}

	draft := models.ProjectDraft{
		Name:        name,
		Description: strings.TrimSpace(f.inputs[1].Value()),
		StartDate:   strings.TrimSpace(f.inputs[3].Value()),
		EndDate:     strings.TrimSpace(f.inputs[4].Value()),
	}
	if raw := strings.TrimSpace(f.inputs[2].Value()); raw != "" {
		max, err := strconv.Atoi(raw)
		if err != nil || max < 1 {
			f.errMsg = "Max members must be a positive number"
			return nil
		}
		draft.MaxMembers = max
	}
	for id, in := range f.set {
		if in {
			draft.Members = append(draft.Members, id)
		}
	}

	f.saving = true
	f.errMsg = ""
	client := v.client
	v.mode = adminBrowse
	return v.action("Project created", func(ctx context.Context) error {
		_, err := client.CreateProject(ctx, draft)
		return err
	})
}

func (v *AdminView) openProjectTaskForm(projectID string) {
	mk := func(placeholder string, limit int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		return in
	}
	inputs := []textinput.Model{
		mk("task title", 200),
		mk("description (optional)", 2000),
		mk("due date YYYY-MM-DD (optional)", 10),
		mk("attachment paths, comma separated (optional)", 500),
	}
	inputs[0].Focus()
	v.taskForm = projectTaskForm{
		projectID: projectID,
		inputs:    inputs,
		priority:  models.PriorityMedium,
		assignee:  -1,
	}
	v.mode = adminProjectTask
}

func (v *AdminView) updateProjectTask(msg tea.KeyMsg) (*AdminView, tea.Cmd) {
	f := &v.taskForm
	if f.saving {
		return v, nil
	}
	n := len(f.inputs) + 3 // inputs, priority, assignee, save

	setFocus := func(i int) {
		f.focus = (i + n) % n
		for j := range f.inputs {
			if j == f.focus {
				f.inputs[j].Focus()
			} else {
				f.inputs[j].Blur()
			}
		}
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = adminBrowse
		return v, nil
	case key.Matches(msg, v.keys.Tab):
		setFocus(f.focus + 1)
		return v, nil
	case msg.String() == "shift+tab":
		setFocus(f.focus - 1)
		return v, nil
	case key.Matches(msg, v.keys.Enter) && f.focus == n-1:
		return v, v.saveProjectTaskCmd()
	}

	switch f.focus {
	case len(f.inputs): // priority
		switch msg.String() {
		case "left", "h":
			f.priority = prevPriority(f.priority)
		case "right", "l", " ":
			f.priority = nextPriority(f.priority)
		}
		return v, nil
	case len(f.inputs) + 1: // assignee
		switch msg.String() {
		case "left", "h":
			f.assignee = clamp(f.assignee-1, -1, len(v.users)-1)
		case "right", "l", " ":
			f.assignee = clamp(f.assignee+1, -1, len(v.users)-1)
		}
		return v, nil
	}

	if f.focus < len(f.inputs) {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *AdminView) saveProjectTaskCmd() tea.Cmd {
	f := &v.taskForm

	draft := models.TaskDraft{
		Title:       strings.TrimSpace(f.inputs[0].Value()),
		Description: strings.TrimSpace(f.inputs[1].Value()),
		Priority:    f.priority,
	}
	if draft.Title == "" {
		f.errMsg = "A title is required"
		return nil
	}
	if raw := strings.TrimSpace(f.inputs[2].Value()); raw != "" {
		due, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			f.errMsg = "Due date must look like 2026-01-31"
			return nil
		}
		draft.DueDate = &due
	}
	if f.assignee >= 0 && f.assignee < len(v.users) {
		draft.AssignedTo = models.UserIDs{v.users[f.assignee].ID}
	}

	var paths []string
	for _, p := range strings.Split(f.inputs[3].Value(), ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) > api.MaxUploadFiles {
		f.errMsg = fmt.Sprintf("At most %d attachments are allowed", api.MaxUploadFiles)
		return nil
	}

	f.saving = true
	f.errMsg = ""
	client := v.client
	projectID := f.projectID
	v.mode = adminBrowse
	return v.action("Project task created", func(ctx context.Context) error {
		var uploads []api.Upload
		for _, p := range paths {
			data, err := os.ReadFile(p)
			if err != nil {
				return fmt.Errorf("read %s: %w", p, err)
			}
			if len(data) > api.MaxUploadFileSize {
				return fmt.Errorf("%s exceeds the 5 MB attachment limit", filepath.Base(p))
			}
			uploads = append(uploads, api.Upload{Name: filepath.Base(p), Data: data})
		}
		return client.AdminCreateProjectTask(ctx, projectID, draft, uploads)
	})
}

func (v *AdminView) updateConfirmProject(msg tea.KeyMsg) (*AdminView, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		v.mode = adminBrowse
		if p, ok := v.selectedProject(); ok {
			client := v.client
			id := p.ID
			return v, v.action("Project deleted", func(ctx context.Context) error {
				return client.DeleteProject(ctx, id)
			})
		}
	case "n", "esc":
		v.mode = adminBrowse
	}
	return v, nil
}

func (v *AdminView) updateMembers(msg tea.KeyMsg) (*AdminView, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = adminBrowse
		return v, nil
	case key.Matches(msg, v.keys.Up):
		v.memberCursor = clamp(v.memberCursor-1, 0, maxInt(len(v.users)-1, 0))
	case key.Matches(msg, v.keys.Down):
		v.memberCursor = clamp(v.memberCursor+1, 0, maxInt(len(v.users)-1, 0))
	case msg.String() == " ":
		if v.memberCursor < len(v.users) {
			id := v.users[v.memberCursor].ID
			v.memberSet[id] = !v.memberSet[id]
		}
	case key.Matches(msg, v.keys.Enter):
		var members models.UserIDs
		for id, in := range v.memberSet {
			if in {
				members = append(members, id)
			}
		}
		id := v.memberProjectID
		client := v.client
		v.mode = adminBrowse
		return v, v.action("Members updated", func(ctx context.Context) error {
			return client.UpdateProjectMembers(ctx, id, members)
		})
	}
	return v, nil
}

// ----- tasks tab -----

func (v *AdminView) updateTasksTab(msg tea.KeyMsg) (*AdminView, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		v.taskCursor = clamp(v.taskCursor-1, 0, maxInt(len(v.allTasks)-1, 0))
	case key.Matches(msg, v.keys.Down):
		v.taskCursor = clamp(v.taskCursor+1, 0, maxInt(len(v.allTasks)-1, 0))
	case msg.String() == "a":
		if t, ok := v.selectedTask(); ok && len(v.users) > 0 {
			v.assignTaskID = t.ID
			v.assignCursor = 0
			v.mode = adminAssign
		}
	case msg.String() == "v":
		if t, ok := v.selectedTask(); ok {
			v.reviewTaskID = t.ID
			v.reports = models.TaskReports{}
			v.loadingReps = true
			v.mode = adminReports
			client := v.client
			return v, func() tea.Msg {
				data, err := client.TaskReports(context.Background(), t.ID)
				return adminReportsMsg{data: data, err: err}
			}
		}
	}
	return v, nil
}

func (v *AdminView) updateAssign(msg tea.KeyMsg) (*AdminView, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = adminBrowse
		return v, nil
	case key.Matches(msg, v.keys.Up):
		v.assignCursor = clamp(v.assignCursor-1, 0, maxInt(len(v.users)-1, 0))
	case key.Matches(msg, v.keys.Down):
		v.assignCursor = clamp(v.assignCursor+1, 0, maxInt(len(v.users)-1, 0))
	case key.Matches(msg, v.keys.Enter):
		if v.assignCursor < len(v.users) {
			taskID := v.assignTaskID
			userID := v.users[v.assignCursor].ID
			client := v.client
			v.mode = adminBrowse
			return v, v.action("Task assigned", func(ctx context.Context) error {
				return client.AdminAssignTask(ctx, taskID, userID)
			})
		}
	}
	return v, nil
}

func (v *AdminView) updateReports(msg tea.KeyMsg) (*AdminView, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = adminBrowse
		return v, nil
	case key.Matches(msg, v.keys.Up):
		v.reportCursor = clamp(v.reportCursor-1, 0, maxInt(len(v.reports.Reports)-1, 0))
	case key.Matches(msg, v.keys.Down):
		v.reportCursor = clamp(v.reportCursor+1, 0, maxInt(len(v.reports.Reports)-1, 0))
	case key.Matches(msg, v.keys.Enter):
		if v.reportCursor < len(v.reports.Reports) {
			v.openReview(v.reports.Reports[v.reportCursor])
		}
	}
	return v, nil
}

func (v *AdminView) openReview(r models.ProgressReport) {
	comment := textinput.New()
	comment.Placeholder = "review comment"
	comment.CharLimit = 500

	progress := textinput.New()
	progress.Placeholder = "progress 0-100 (optional)"
	progress.CharLimit = 3

	v.review = reviewForm{
		reportID: r.ID,
		approve:  true,
		comment:  comment,
		progress: progress,
	}
	v.mode = adminReview
}

func (v *AdminView) updateReview(msg tea.KeyMsg) (*AdminView, tea.Cmd) {
	f := &v.review

	setFocus := func(i int) {
		f.focus = (i + 4) % 4
		f.comment.Blur()
		f.progress.Blur()
		switch f.focus {
		case 1:
			f.comment.Focus()
		case 2:
			f.progress.Focus()
		}
	}

	switch {
	case key.Matches(msg, v.keys.Back):
		v.mode = adminReports
		return v, nil
	case key.Matches(msg, v.keys.Tab):
		setFocus(f.focus + 1)
		return v, nil
	case msg.String() == "shift+tab":
		setFocus(f.focus - 1)
		return v, nil
	case key.Matches(msg, v.keys.Enter) && f.focus == 3:
		return v, v.submitReviewCmd()
	}

	if f.focus == 0 {
		switch msg.String() {
		case "left", "right", "h", "l", " ":
			f.approve = !f.approve
		}
		return v, nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case 1:
		f.comment, cmd = f.comment.Update(msg)
	case 2:
		f.progress, cmd = f.progress.Update(msg)
	}
	return v, cmd
}

func (v *AdminView) submitReviewCmd() tea.Cmd {
	f := &v.review
	comment := strings.TrimSpace(f.comment.Value())

	decision := models.ReportApproved
	if !f.approve {
		decision = models.ReportRejected
		// rejections are useless to the author without an explanation
		if comment == "" {
			f.errMsg = "A rejection needs a comment"
			return nil
		}
	}

	var progress *int
	if raw := strings.TrimSpace(f.progress.Value()); raw != "" && f.approve {
		p, err := strconv.Atoi(raw)
		if err != nil {
			f.errMsg = "Progress must be a number"
			return nil
		}
		p = clamp(p, 0, 100)
		progress = &p
	}

	taskID := v.reviewTaskID
	reportID := f.reportID
	client := v.client
	info := "Report approved"
	if !f.approve {
		info = "Report rejected"
	}
	f.errMsg = ""
	v.mode = adminBrowse
	return v.action(info, func(ctx context.Context) error {
		return client.AdminReviewProgress(ctx, taskID, reportID, decision, comment, progress)
	})
}

// ----- rendering -----

func (v *AdminView) View() string {
	s := v.styles

	var tabs []string
	for t := adminUsers; t <= adminStats; t++ {
		label := fmt.Sprintf("%d %s", int(t)+1, t)
		if t == v.tab {
			tabs = append(tabs, s.ButtonPrimary.Render(label))
		} else {
			tabs = append(tabs, s.Button.Render(label))
		}
	}

	var b []string
	b = append(b,
		s.Title.Render("Admin"),
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...),
		"",
	)
	if v.errMsg != "" {
		b = append(b, s.AlertError.Render(v.errMsg), "")
	}

	switch v.mode {
	case adminConfirmUserDelete:
		b = append(b,
			s.Panel.Render("Delete user "+v.userName(v.targetUserID)+" and every task they own?"),
			helpLine(s, "y", "delete", "n", "keep"))
	case adminResetPassword:
		b = append(b,
			s.Title.Render("Reset password for "+v.userName(v.targetUserID)),
			s.InputFocused.Render(v.passwordInput.View()),
			helpLine(s, "↵", "reset", "esc", "cancel"))
	case adminProjectForm:
		b = append(b, v.viewProjectForm()...)
	case adminConfirmProjectDelete:
		name := ""
		if p, ok := v.selectedProject(); ok {
			name = p.Name
		}
		b = append(b,
			s.Panel.Render("Delete project "+name+"? Its tasks are removed too."),
			helpLine(s, "y", "delete", "n", "keep"))
	case adminMembers:
		b = append(b, v.viewMembers()...)
	case adminAssign:
		b = append(b, v.viewAssign()...)
	case adminReports:
		b = append(b, v.viewAdminReports()...)
	case adminReview:
		b = append(b, v.viewReview()...)
	case adminProjectTask:
		b = append(b, v.viewProjectTask()...)
	default:
		b = append(b, v.viewTab()...)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, b...)
	return styles.CenterView(content, v.width, v.height)
}

func (v *AdminView) viewTab() []string {
	s := v.styles

	if v.loading && len(v.users) == 0 {
		return []string{s.TitleMuted.Render("loading...")}
	}

	switch v.tab {
	case adminUsers:
		return []string{
			v.userList.View(),
			helpLine(s, "↑/↓", "move", "d", "delete", "p", "reset password", "tab", "next tab", "esc", "back"),
		}

	case adminProjects:
		var b []string
		if len(v.projects) == 0 {
			b = append(b, s.TitleMuted.Render("no projects yet. press n to create one"))
		}
		for i, p := range v.projects {
			line := fmt.Sprintf("%s · %d members", p.Name, len(p.Members))
			if p.MaxMembers > 0 {
				line = fmt.Sprintf("%s · %d/%d members", p.Name, len(p.Members), p.MaxMembers)
			}
			if p.EndDate != nil {
				line += " · ends " + formatDay(*p.EndDate)
			}
			if i == clamp(v.projCursor, 0, maxInt(len(v.projects)-1, 0)) {
				b = append(b, s.ListSelected.Render(line))
			} else {
				b = append(b, s.ListItem.Render(line))
			}
		}
		b = append(b, helpLine(s, "n", "new", "d", "delete", "m", "members", "t", "new task", "tab", "next tab"))
		return b

	case adminTasks:
		var b []string
		if len(v.allTasks) == 0 {
			b = append(b, s.TitleMuted.Render("no tasks anywhere"))
		}
		width := styles.ContentWidth(v.width)
		for i, t := range v.allTasks {
			check := "[ ]"
			if t.Completed {
				check = "[x]"
			}
			parts := []string{check, truncate(t.Title, width-40), s.TitleMuted.Render(v.userName(t.UserID))}
			if t.IsProject() {
				parts = append(parts, s.BadgeMuted.Render(truncate(v.projectName(t.ProjectID), 16)))
			}
			if len(t.AssignedTo) > 0 {
				parts = append(parts, s.TitleMuted.Render("→ "+v.userName(t.AssignedTo[0])))
			}
			line := strings.Join(parts, " ")
			if i == clamp(v.taskCursor, 0, maxInt(len(v.allTasks)-1, 0)) {
				b = append(b, s.ListSelected.Render(line))
			} else {
				b = append(b, s.ListItem.Render(line))
			}
		}
		b = append(b, helpLine(s, "a", "assign", "v", "review reports", "tab", "next tab"))
		return b

	default: // stats
		st := v.stats
		return []string{
			v.styles.Panel.Render(lipgloss.JoinVertical(lipgloss.Left,
				fmt.Sprintf("total tasks      %d", st.Total),
				fmt.Sprintf("completed        %d", st.Completed),
				fmt.Sprintf("validated        %d", st.Validated),
				fmt.Sprintf("completion rate  %.0f%%  %s", st.CompletionRate, progressBar(int(st.CompletionRate), 20)),
			)),
			helpLine(s, "r", "refresh", "tab", "next tab", "esc", "back"),
		}
	}
}

func (v *AdminView) viewProjectForm() []string {
	s := v.styles
	f := &v.projForm

	var b []string
	b = append(b, s.Title.Render("New project"), "")
	if f.errMsg != "" {
		b = append(b, s.AlertError.Render(f.errMsg), "")
	}
	for i, in := range f.inputs {
		if i == f.focus {
			b = append(b, s.InputFocused.Render(in.View()))
		} else {
			b = append(b, s.Input.Render(in.View()))
		}
	}

	b = append(b, "", s.TitleMuted.Render("members (space to toggle)"))
	picker := f.focus == len(f.inputs)
	for i, u := range v.users {
		mark := "[ ]"
		if f.set[u.ID] {
			mark = "[x]"
		}
		line := mark + " " + u.FullName()
		if picker && i == f.cursor {
			b = append(b, s.ListSelected.Render(line))
		} else {
			b = append(b, s.ListItem.Render(line))
		}
	}

	save := s.Button.Render("Create")
	if f.saving {
		save = s.Button.Render("Creating...")
	} else if f.focus == len(f.inputs)+1 {
		save = s.ButtonFocused.Render("Create")
	}
	b = append(b, "", save, helpLine(s, "tab", "next field", "↵", "create", "esc", "cancel"))
	return b
}

func (v *AdminView) viewProjectTask() []string {
	s := v.styles
	f := &v.taskForm

	choice := func(label string, focused bool) string {
		if focused {
			return s.ButtonFocused.Render(label)
		}
		return s.Button.Render(label)
	}

	assigneeLabel := "assignee: none"
	if f.assignee >= 0 && f.assignee < len(v.users) {
		assigneeLabel = "assignee: " + v.users[f.assignee].FullName()
	}

	var b []string
	b = append(b, s.Title.Render("New task · "+v.projectName(f.projectID)), "")
	if f.errMsg != "" {
		b = append(b, s.AlertError.Render(f.errMsg), "")
	}
	for i, in := range f.inputs {
		if i == f.focus {
			b = append(b, s.InputFocused.Render(in.View()))
		} else {
			b = append(b, s.Input.Render(in.View()))
		}
	}
	b = append(b,
		choice("priority: "+string(f.priority), f.focus == len(f.inputs)),
		choice(assigneeLabel, f.focus == len(f.inputs)+1),
	)

	save := s.Button.Render("Create")
	if f.saving {
		save = s.Button.Render("Creating...")
	} else if f.focus == len(f.inputs)+2 {
		save = s.ButtonFocused.Render("Create")
	}
	b = append(b, "", save, helpLine(s, "tab", "next field", "←/→", "change value", "↵", "create", "esc", "cancel"))
	return b
}

func (v *AdminView) viewMembers() []string {
	s := v.styles

	var b []string
	b = append(b, s.Title.Render("Members · "+v.projectName(v.memberProjectID)), "")
	for i, u := range v.users {
		mark := "[ ]"
		if v.memberSet[u.ID] {
			mark = "[x]"
		}
		line := mark + " " + u.FullName() + " " + s.TitleMuted.Render(u.Email)
		if i == v.memberCursor {
			b = append(b, s.ListSelected.Render(line))
		} else {
			b = append(b, s.ListItem.Render(line))
		}
	}
	b = append(b, helpLine(s, "space", "toggle", "↵", "save", "esc", "cancel"))
	return b
}

func (v *AdminView) viewAssign() []string {
	s := v.styles

	var b []string
	b = append(b, s.Title.Render("Assign to"), "")
	for i, u := range v.users {
		line := u.FullName() + " " + s.TitleMuted.Render(u.Email)
		if i == v.assignCursor {
			b = append(b, s.ListSelected.Render(line))
		} else {
			b = append(b, s.ListItem.Render(line))
		}
	}
	b = append(b, helpLine(s, "↵", "assign", "esc", "cancel"))
	return b
}

func (v *AdminView) viewAdminReports() []string {
	s := v.styles

	var b []string
	title := "Reports"
	if v.reports.Task != nil {
		title += " · " + truncate(v.reports.Task.Title, 40)
	}
	b = append(b, s.Title.Render(title), "")

	switch {
	case v.loadingReps:
		b = append(b, s.TitleMuted.Render("loading reports..."))
	case len(v.reports.Reports) == 0:
		b = append(b, s.TitleMuted.Render("no reports submitted"))
	default:
		for i, r := range v.reports.Reports {
			line := reportBadge(s, r.Status) + " " + truncate(r.Content, 40) + " " +
				s.TitleMuted.Render(v.userName(r.UserID)+" · "+formatDate(r.CreatedAt))
			if i == v.reportCursor {
				b = append(b, s.ListSelected.Render(line))
			} else {
				b = append(b, s.ListItem.Render(line))
			}
		}
	}
	b = append(b, helpLine(s, "↵", "review", "esc", "back"))
	return b
}

func (v *AdminView) viewReview() []string {
	s := v.styles
	f := &v.review

	decision := "decision: approve"
	if !f.approve {
		decision = "decision: reject"
	}
	choice := s.Button.Render(decision)
	if f.focus == 0 {
		choice = s.ButtonFocused.Render(decision)
	}

	input := func(view string, focused bool) string {
		if focused {
			return s.InputFocused.Render(view)
		}
		return s.Input.Render(view)
	}

	submit := s.Button.Render("Submit review")
	if f.focus == 3 {
		submit = s.ButtonFocused.Render("Submit review")
	}

	var b []string
	b = append(b, s.Title.Render("Review report"), "")
	if f.errMsg != "" {
		b = append(b, s.AlertError.Render(f.errMsg), "")
	}
	b = append(b,
		choice,
		input(f.comment.View(), f.focus == 1),
		input(f.progress.View(), f.focus == 2),
		"",
		submit,
		helpLine(s, "←/→", "toggle decision", "tab", "next field", "↵", "submit", "esc", "back"),
	)
	return b
}
