// Package sentryutil forwards unhandled errors to Sentry when a DSN is
// configured.
package sentryutil

import (
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

const flushTimeout = 2 * time.Second

// Init configures the global Sentry client. An empty dsn leaves capturing
// disabled; every Capture call then becomes a no-op.
func Init(dsn, environment string, log *zap.Logger) {
	err := sentry.Init(options(dsn, environment))
	if err != nil {
		log.Warn("sentry init failed, error tracking disabled", zap.Error(err))
		return
	}
	if dsn == "" {
		log.Info("SENTRY_DSN empty, error tracking disabled")
		return
	}
	log.Info("sentry initialized", zap.String("environment", environment))
}

func options(dsn, environment string) sentry.ClientOptions {
	return sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
		BeforeSend: func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
			// chat members are not ours to ship off
			event.User = sentry.User{}
			return event
		},
	}
}

// Flush waits for queued events before shutdown.
func Flush(log *zap.Logger) {
	if !sentry.Flush(flushTimeout) {
		log.Warn("sentry flush timed out, queued events dropped")
	}
}

// Capture reports err under incidentID, the id developers see in their
// Telegram diagnostic, so both can be matched.
func Capture(err error, incidentID string) {
	captureOn(sentry.CurrentHub(), err, incidentID)
}

func captureOn(hub *sentry.Hub, err error, incidentID string) *sentry.EventID {
	if err == nil || hub == nil {
		return nil
	}
	var id *sentry.EventID
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		scope.SetTag("incident", incidentID)
		id = hub.CaptureException(err)
	})
	return id
}
