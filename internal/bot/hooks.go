package bot

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Hooks run around a single handler call.
type Hooks struct {
	Before func(c tele.Context)
	After  func(c tele.Context, err error, elapsed time.Duration)
}

// Wrap is a tele.MiddlewareFunc.
func (h Hooks) Wrap(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if h.Before != nil {
			h.Before(c)
		}
		start := time.Now()
		err := next(c)
		if h.After != nil {
			h.After(c, err, time.Since(start))
		}
		return err
	}
}

// hooks sends action (if any) before the handler and logs after it.
func (b *Bot) hooks(name string, action tele.ChatAction) tele.MiddlewareFunc {
	h := Hooks{
		After: func(c tele.Context, err error, elapsed time.Duration) {
			fields := []zap.Field{zap.String("handler", name), zap.Duration("elapsed", elapsed)}
			if s := c.Sender(); s != nil {
				fields = append(fields, zap.Int64("user", s.ID))
			}
			if err != nil {
				fields = append(fields, zap.Error(err))
			}
			b.log.Debug("handled", fields...)
		},
	}
	if action != "" {
		h.Before = func(c tele.Context) {
			if err := c.Notify(action); err != nil {
				b.log.Debug("chat action failed", zap.String("action", string(action)), zap.Error(err))
			}
		}
	}
	return h.Wrap
}

// recoverPanic turns a handler panic into an error carrying the stack of
// the panic site, so it reaches OnError like any other failure.
func recoverPanic(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				if e, ok := r.(error); ok {
					err = errors.Wrap(e, "panic")
					return
				}
				err = errors.Errorf("panic: %v", r)
			}
		}()
		return next(c)
	}
}
