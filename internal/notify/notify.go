package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/vitaflowd/vitaflow/internal/scheduler"
)

// Notification is the payload handed to the host platform. Tag carries the
// scheduler's per-minute dedup key so the OS notification center collapses
// duplicates.
type Notification struct {
	Title string
	Body  string
	Tag   string
}

// Notifier is the external notification gateway. A send failure affects only
// that one notification; callers log it and keep going.
type Notifier interface {
	Send(Notification) error
}

// FromEvent builds the user-facing payload for a due reminder:
// fixed prefix + name as the title, dosage plus optional notes as the body.
func FromEvent(ev scheduler.ReminderEvent) Notification {
	body := "Dosage: " + ev.Dosage
	if strings.TrimSpace(ev.Dosage) == "" {
		body = "As directed"
	}
	if strings.TrimSpace(ev.Notes) != "" {
		body += ". " + ev.Notes
	}
	return Notification{
		Title: "Time to take: " + ev.Name,
		Body:  body,
		Tag:   ev.Tag,
	}
}

type NoopNotifier struct{}

func (NoopNotifier) Send(Notification) error { return nil }

// ExecNotifier shells out to the platform notification tool.
type ExecNotifier struct{}

func (ExecNotifier) Send(n Notification) error {
	switch runtime.GOOS {
	case "linux":
		return exec.Command("notify-send", "--hint", "string:x-dunst-stack-tag:"+n.Tag, n.Title, n.Body).Run()
	case "darwin":
		// osascript has no stack-tag equivalent, so Tag is dropped here and
		// dedup falls back to Notification Center's own coalescing.
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(n.Body), escapeAppleScript(n.Title))
		return exec.Command("osascript", "-e", script).Run()
	default:
		return nil
	}
}

// escapeAppleScript escapes backslashes before quotes so an input like `\"`
// cannot re-open the quoted string.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
