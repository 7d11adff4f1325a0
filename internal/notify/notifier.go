// Package notify tells developers about errors that escaped a handler.
package notify

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	tele "gopkg.in/telebot.v3"

	"github.com/planetban/hadirbot/internal/messages"
)

// Sender is the part of *tele.Bot the notifier needs.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type Notifier struct {
	sender     Sender
	developers []int64
	limiter    *rate.Limiter
	log        *zap.Logger
	capture    func(err error, incidentID string)
}

type Option func(*Notifier)

// WithCapture forwards every error to an external tracker as well, under
// the incident id printed in the developer diagnostic.
func WithCapture(fn func(err error, incidentID string)) Option {
	return func(n *Notifier) { n.capture = fn }
}

// New paces sends at perSecond messages. One report always goes out to
// every developer without waiting.
func New(sender Sender, developers []int64, perSecond float64, log *zap.Logger, opts ...Option) *Notifier {
	burst := len(developers)
	if burst < 1 {
		burst = 1
	}
	n := &Notifier{
		sender:     sender,
		developers: developers,
		limiter:    rate.NewLimiter(rate.Limit(perSecond), burst),
		log:        log,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// OnError has the signature of tele.Settings.OnError.
func (n *Notifier) OnError(err error, c tele.Context) {
	r := NewReport(err, c)

	fields := []zap.Field{zap.String("incident", r.IncidentID), zap.Error(err)}
	if c != nil {
		fields = append(fields, zap.Any("update", c.Update()))
	}
	n.log.Warn("update caused error", fields...)

	if c != nil && c.Message() != nil {
		if rerr := c.Reply(messages.Render(messages.Apology, messages.Params{})); rerr != nil {
			n.log.Debug("apology not delivered", zap.Error(rerr))
		}
	}

	if n.capture != nil {
		n.capture(err, r.IncidentID)
	}

	if nerr := n.Notify(context.Background(), r); nerr != nil {
		n.log.Error("developer notification incomplete",
			zap.String("incident", r.IncidentID), zap.Error(nerr))
	}
}

// Notify sends the report to each developer in turn. A failed send does
// not stop the others; all failures are returned together.
func (n *Notifier) Notify(ctx context.Context, r Report) error {
	text := r.HTML()

	var errs error
	for _, id := range n.developers {
		if err := n.limiter.Wait(ctx); err != nil {
			return multierr.Append(errs, errors.Wrap(err, "notify"))
		}
		if _, err := n.sender.Send(tele.ChatID(id), text, tele.ModeHTML); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "notify developer %d", id))
		}
	}
	return errs
}
