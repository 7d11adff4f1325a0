package notify

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	tele "gopkg.in/telebot.v3"

	"github.com/planetban/hadirbot/internal/messages"
)

const (
	// maxMessage is Telegram's limit on one message, counted here over the
	// rendered HTML so markup is included.
	maxMessage = 4096
	// maxErrText caps the error line; the trace gets what is left.
	maxErrText = 1024
	ellipsis   = "…"
)

// Report is the diagnostic built for one unhandled error.
type Report struct {
	IncidentID string
	Err        error
	Stack      string
	User       *tele.User
	Chat       *tele.Chat
}

// NewReport captures err and whatever the context knows about where it
// happened. c may be nil.
func NewReport(err error, c tele.Context) Report {
	r := Report{
		IncidentID: uuid.NewString(),
		Err:        err,
		Stack:      StackTrace(err),
	}
	if c != nil {
		r.User = c.Sender()
		r.Chat = c.Chat()
	}
	return r
}

// HTML renders the message sent to developers.
func (r Report) HTML() string {
	var payload strings.Builder
	if r.User != nil {
		payload.WriteString(" with the user " + messages.Mention(r.User.ID, r.User.FirstName))
	}
	if r.Chat != nil && (r.Chat.Title != "" || r.Chat.Username != "") {
		payload.WriteString(" within the chat")
		if r.Chat.Title != "" {
			payload.WriteString(" <i><u>" + html.EscapeString(r.Chat.Title) + "</u></i>")
		}
		if r.Chat.Username != "" {
			payload.WriteString(" (@" + html.EscapeString(r.Chat.Username) + ")")
		}
	}

	msg := "<nil>"
	if r.Err != nil {
		msg = r.Err.Error()
	}
	trace := r.Stack
	if trace == "" {
		trace = "(no stack trace)"
	}

	const layout = "Hey.\nThe error <code>%s</code> happened%s.\nIncident <code>%s</code>. The full traceback:\n\n<code>%s</code>"
	msg = escapeWithin(msg, maxErrText)
	frame := fmt.Sprintf(layout, msg, payload.String(), r.IncidentID, "")
	trace = escapeWithin(trace, maxMessage-utf8.RuneCountInString(frame))
	return fmt.Sprintf(layout, msg, payload.String(), r.IncidentID, trace)
}

// escapeWithin HTML-escapes s and cuts it to at most limit runes. Cuts
// land on rune boundaries of the raw text so no entity is split.
func escapeWithin(s string, limit int) string {
	out := html.EscapeString(s)
	if utf8.RuneCountInString(out) <= limit {
		return out
	}
	limit -= utf8.RuneCountInString(ellipsis)
	if limit <= 0 {
		return ""
	}
	raw := []rune(s)
	for {
		out = html.EscapeString(string(raw))
		over := utf8.RuneCountInString(out) - limit
		if over <= 0 {
			return out + ellipsis
		}
		// an escaped rune is at most five runes long ("&amp;", "&#39;")
		cut := (over + 4) / 5
		if cut > len(raw) {
			cut = len(raw)
		}
		raw = raw[:len(raw)-cut]
	}
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// StackTrace returns the deepest stack recorded in err's chain, formatted
// one frame per two lines. Errors without a recorded stack yield "".
func StackTrace(err error) string {
	var deepest stackTracer
	for e := err; e != nil; e = errors.Unwrap(e) {
		if st, ok := e.(stackTracer); ok {
			deepest = st
		}
	}
	if deepest == nil {
		return ""
	}
	return strings.TrimLeft(fmt.Sprintf("%+v", deepest.StackTrace()), "\n")
}
