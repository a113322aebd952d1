package view

import (
	"html/template"
	"strings"
)

// BadgeClass is the visual category of a status badge.
type BadgeClass string

const (
	BadgeSuccess BadgeClass = "badge-success"
	BadgeWarning BadgeClass = "badge-warning"
	BadgeDanger  BadgeClass = "badge-danger"
	BadgeInfo    BadgeClass = "badge-info"
)

// ContextIssue selects the issue-tracking reading of "closed".
const ContextIssue = "issue"

var statusClasses = map[string]BadgeClass{
	"active":            BadgeSuccess,
	"pending":           BadgeWarning,
	"approved":          BadgeSuccess,
	"rejected":          BadgeDanger,
	"cancelled":         BadgeDanger,
	"in_progress":       BadgeInfo,
	"resolved":          BadgeSuccess,
	"closed":            BadgeDanger, // facilities and resources: unavailable
	"available":         BadgeSuccess,
	"unavailable":       BadgeDanger,
	"occupied":          BadgeWarning,
	"under_maintenance": BadgeWarning,
	"reserved":          BadgeInfo,
}

type Badge struct {
	Class BadgeClass
	Label string
}

// StatusBadge maps a status keyword to its badge. An issue that is closed is
// resolved; anything else that is closed is unavailable.
func StatusBadge(status, context string) Badge {
	if status == "" {
		return Badge{Class: BadgeInfo, Label: "Unknown"}
	}

	key := strings.ToLower(status)
	if key == "closed" && context == ContextIssue {
		return Badge{Class: BadgeSuccess, Label: "Resolved"}
	}

	class, ok := statusClasses[key]
	if !ok {
		class = BadgeInfo
	}
	return Badge{Class: class, Label: titleWords(strings.ReplaceAll(status, "_", " "))}
}

// HTML renders the badge as a span; the label is escaped.
func (b Badge) HTML() template.HTML {
	return template.HTML(`<span class="badge ` + string(b.Class) + `">` + EscapeHTML(b.Label) + `</span>`)
}

// titleWords upper-cases the first letter of every word, leaving the rest as-is.
func titleWords(s string) string {
	out := []rune(s)
	start := true
	for i, r := range out {
		word := r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if word && start && r >= 'a' && r <= 'z' {
			out[i] = r - 'a' + 'A'
		}
		start = !word
	}
	return string(out)
}
