package views

import (
	"fmt"
	"strings"
	"time"

	"taskdeck/internal/models"
	"taskdeck/internal/ui/styles"
)

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// formatDate renders timestamps the way the rest of the app expects them
func formatDate(t time.Time) string {
	return t.Local().Format("02/01/2006 15:04")
}

func formatDay(t time.Time) string {
	return t.Local().Format("02/01/2006")
}

func priorityBadge(s *styles.Styles, p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return s.BadgeHigh.Render("high")
	case models.PriorityLow:
		return s.BadgeLow.Render("low")
	default:
		return s.BadgeMedium.Render("medium")
	}
}

func participationBadge(s *styles.Styles, p models.Participation) string {
	switch p {
	case models.ParticipationAccepted:
		return s.BadgeOK.Render("accepted")
	case models.ParticipationDeclined:
		return s.BadgeErr.Render("declined")
	default:
		return s.BadgeWarn.Render("pending")
	}
}

func reportBadge(s *styles.Styles, st models.ReportStatus) string {
	switch st {
	case models.ReportApproved:
		return s.BadgeOK.Render("approved")
	case models.ReportRejected:
		return s.BadgeErr.Render("rejected")
	default:
		return s.BadgeMuted.Render("submitted")
	}
}

// progressBar draws a fixed-width bar for project task progress
func progressBar(percent, width int) string {
	percent = clamp(percent, 0, 100)
	filled := width * percent / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// truncate shortens s to max runes, never cutting inside a multibyte
// sequence.
func truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max == 1 {
		return string(r[:1])
	}
	return string(r[:max-1]) + "…"
}

func pageIndicator(page, total int) string {
	return fmt.Sprintf("page %d/%d", page, total)
}

// helpLine renders "key action" pairs in the shared help style
func helpLine(s *styles.Styles, pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(s.HelpKey.Render(pairs[i]))
		b.WriteString(" ")
		b.WriteString(pairs[i+1])
	}
	return s.Help.Render(b.String())
}
