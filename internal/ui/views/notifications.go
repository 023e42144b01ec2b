package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/api"
	"taskdeck/internal/models"
	"taskdeck/internal/notify"
	"taskdeck/internal/ui/keys"
	"taskdeck/internal/ui/styles"
)

// notifPageSize is the inbox page length
const notifPageSize = 10

type readFilter string

const (
	readAll    readFilter = "all"
	readUnread readFilter = "unread"
	readRead   readFilter = "read"
)

// NotificationsView is the inbox page over the poller's cache
type NotificationsView struct {
	poller *notify.Poller
	styles *styles.Styles
	keys   keys.KeyMap

	filter     readFilter
	typeFilter string // empty means every type
	page       int
	cursor     int
	lastCount  int

	confirmClear bool
	loading      bool
	errMsg       string

	width  int
	height int
}

type notifActionMsg struct{ err error }

func NewNotificationsView(poller *notify.Poller) *NotificationsView {
	return &NotificationsView{
		poller: poller,
		styles: styles.NewStyles(),
		keys:   keys.DefaultKeyMap(),
		filter: readAll,
		page:   1,
	}
}

func (v *NotificationsView) Init() tea.Cmd {
	v.loading = true
	return v.syncCmd()
}

func (v *NotificationsView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

func (v *NotificationsView) syncCmd() tea.Cmd {
	poller := v.poller
	return func() tea.Msg {
		fresh, err := poller.Sync(context.Background())
		return NotificationsSynced{Fresh: fresh, Err: err}
	}
}

func (v *NotificationsView) action(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return notifActionMsg{err: fn(context.Background())}
	}
}

// filtered applies the read-state and type filters to the cached list
func (v *NotificationsView) filtered() []models.Notification {
	var out []models.Notification
	for _, n := range v.poller.Items() {
		switch v.filter {
		case readUnread:
			if n.Read {
				continue
			}
		case readRead:
			if !n.Read {
				continue
			}
		}
		if v.typeFilter != "" && n.Type != v.typeFilter {
			continue
		}
		out = append(out, n)
	}
	return out
}

// types lists the distinct notification types present in the cache, in
// first-seen order, for the type filter cycle.
func (v *NotificationsView) types() []string {
	seen := map[string]bool{}
	var out []string
	for _, n := range v.poller.Items() {
		if n.Type != "" && !seen[n.Type] {
			seen[n.Type] = true
			out = append(out, n.Type)
		}
	}
	return out
}

func (v *NotificationsView) cycleType() {
	types := v.types()
	if len(types) == 0 {
		v.typeFilter = ""
		return
	}
	if v.typeFilter == "" {
		v.typeFilter = types[0]
		return
	}
	for i, t := range types {
		if t == v.typeFilter {
			if i+1 < len(types) {
				v.typeFilter = types[i+1]
			} else {
				v.typeFilter = ""
			}
			return
		}
	}
	v.typeFilter = ""
}

func (v *NotificationsView) totalPages() int {
	pages := (len(v.filtered()) + notifPageSize - 1) / notifPageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// visible returns the current page slice with the page clamped into range
func (v *NotificationsView) visible() []models.Notification {
	filtered := v.filtered()
	pages := v.totalPages()
	page := clamp(v.page, 1, pages)
	start := (page - 1) * notifPageSize
	if start > len(filtered) {
		return nil
	}
	end := start + notifPageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// resetOnCountChange mirrors the dashboard rule: a changed list length
// sends the reader back to the first page.
func (v *NotificationsView) resetOnCountChange() {
	count := len(v.poller.Items())
	if count != v.lastCount {
		v.page = 1
		v.lastCount = count
	}
	v.cursor = clamp(v.cursor, 0, maxInt(len(v.visible())-1, 0))
}

func (v *NotificationsView) selected() (models.Notification, bool) {
	visible := v.visible()
	if len(visible) == 0 {
		return models.Notification{}, false
	}
	return visible[clamp(v.cursor, 0, len(visible)-1)], true
}

func (v *NotificationsView) Update(msg tea.Msg) (*NotificationsView, tea.Cmd) {
	switch msg := msg.(type) {
	case NotificationsSynced:
		v.loading = false
		if msg.Err != nil {
			v.errMsg = api.UserMessage(msg.Err)
		} else {
			v.errMsg = ""
		}
		v.resetOnCountChange()
		return v, nil

	case notifActionMsg:
		if msg.err != nil {
			v.errMsg = api.UserMessage(msg.err)
		} else {
			v.errMsg = ""
		}
		v.resetOnCountChange()
		return v, nil

	case tea.KeyMsg:
		if v.confirmClear {
			switch msg.String() {
			case "y", "enter":
				v.confirmClear = false
				return v, v.action(v.poller.DeleteAll)
			case "n", "esc":
				v.confirmClear = false
			}
			return v, nil
		}

		switch {
		case key.Matches(msg, v.keys.Back):
			return v, func() tea.Msg { return NavigateBack{} }
		case key.Matches(msg, v.keys.Up):
			v.cursor = clamp(v.cursor-1, 0, maxInt(len(v.visible())-1, 0))
		case key.Matches(msg, v.keys.Down):
			v.cursor = clamp(v.cursor+1, 0, maxInt(len(v.visible())-1, 0))
		case key.Matches(msg, v.keys.PrevPage):
			v.page = clamp(v.page-1, 1, v.totalPages())
			v.cursor = 0
		case key.Matches(msg, v.keys.NextPage):
			v.page = clamp(v.page+1, 1, v.totalPages())
			v.cursor = 0
		case key.Matches(msg, v.keys.Filter):
			switch v.filter {
			case readAll:
				v.filter = readUnread
			case readUnread:
				v.filter = readRead
			default:
				v.filter = readAll
			}
			v.page = 1
			v.cursor = 0
		case msg.String() == "t":
			v.cycleType()
			v.page = 1
			v.cursor = 0
		case key.Matches(msg, v.keys.Refresh):
			v.loading = true
			return v, v.syncCmd()
		case key.Matches(msg, v.keys.Enter), msg.String() == "m":
			if n, ok := v.selected(); ok && !n.Read {
				id := n.ID
				return v, v.action(func(ctx context.Context) error {
					return v.poller.MarkRead(ctx, id)
				})
			}
		case msg.String() == "M":
			return v, v.action(v.poller.MarkAllRead)
		case key.Matches(msg, v.keys.Delete):
			if n, ok := v.selected(); ok {
				id := n.ID
				return v, v.action(func(ctx context.Context) error {
					return v.poller.Delete(ctx, id)
				})
			}
		case msg.String() == "D":
			if len(v.poller.Items()) > 0 {
				v.confirmClear = true
			}
		}
	}
	return v, nil
}

func (v *NotificationsView) View() string {
	s := v.styles
	width := styles.ContentWidth(v.width)

	typeLabel := v.typeFilter
	if typeLabel == "" {
		typeLabel = "any type"
	}
	header := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Notifications")+"  "+s.BadgeMuted.Render(fmt.Sprintf("%d unread", v.poller.UnreadCount())),
		s.StatusBar.Render(fmt.Sprintf("%s · %s · %s",
			v.filter, typeLabel, pageIndicator(clamp(v.page, 1, v.totalPages()), v.totalPages()))),
	)

	var b []string
	b = append(b, header, "")

	if v.confirmClear {
		b = append(b,
			s.Panel.Render("Delete every notification? This cannot be undone."),
			helpLine(s, "y", "delete all", "n", "keep"),
		)
		content := lipgloss.JoinVertical(lipgloss.Left, b...)
		return styles.CenterView(content, v.width, v.height)
	}

	if v.errMsg != "" {
		b = append(b, s.AlertError.Render(v.errMsg), "")
	}

	visible := v.visible()
	if v.loading && len(visible) == 0 {
		b = append(b, s.TitleMuted.Render("loading notifications..."))
	} else if len(visible) == 0 {
		b = append(b, s.TitleMuted.Render("inbox zero"))
	}

	for i, n := range visible {
		marker := "●"
		if n.Read {
			marker = " "
		}
		line := fmt.Sprintf("%s %s · %s", marker, truncate(n.Title, 30), truncate(n.Message, width-45))
		meta := s.TitleMuted.Render(formatDate(n.CreatedAt))
		if n.Type != "" {
			meta += " " + s.TitleMuted.Render("["+n.Type+"]")
		}
		row := line + "  " + meta
		if i == clamp(v.cursor, 0, len(visible)-1) {
			b = append(b, s.ListSelected.Render(row))
		} else {
			b = append(b, s.ListItem.Render(row))
		}
	}

	b = append(b, helpLine(s,
		"↵/m", "mark read", "M", "mark all", "d", "delete", "D", "delete all",
		"f", "filter", "t", "type", "←/→", "page", "r", "refresh", "esc", "back"))

	content := lipgloss.JoinVertical(lipgloss.Left, b...)
	return styles.CenterView(content, v.width, v.height)
}
