package sentry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"

	"gridiron/pkg/errors"
)

var levels = map[errors.Level]sentry.Level{
	errors.LevelDebug:   sentry.LevelDebug,
	errors.LevelInfo:    sentry.LevelInfo,
	errors.LevelWarning: sentry.LevelWarning,
	errors.LevelError:   sentry.LevelError,
	errors.LevelFatal:   sentry.LevelFatal,
}

func toSentryLevel(l errors.Level) sentry.Level {
	if sl, ok := levels[l]; ok {
		return sl
	}
	return sentry.LevelInfo
}

// Tracker reports errors to Sentry
type Tracker struct {
	hub *sentry.Hub
}

// New initializes the Sentry SDK and returns a tracker bound to the
// current hub
func New(dsn, environment string) (*Tracker, error) {
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	}); err != nil {
		return nil, err
	}
	return &Tracker{hub: sentry.CurrentHub()}, nil
}

// CaptureError reports an error with the given tags
func (t *Tracker) CaptureError(ctx context.Context, err error, tags map[string]string) error {
	t.withScope(tags, nil, func(hub *sentry.Hub) {
		hub.CaptureException(err)
	})
	return nil
}

// CaptureMessage reports a plain message at the given level
func (t *Tracker) CaptureMessage(ctx context.Context, message string, level errors.Level, tags map[string]string) error {
	sl := toSentryLevel(level)
	t.withScope(tags, &sl, func(hub *sentry.Hub) {
		hub.CaptureMessage(message)
	})
	return nil
}

// AddBreadcrumb records a step on the shared hub for later events
func (t *Tracker) AddBreadcrumb(ctx context.Context, message string, category string, level errors.Level, data map[string]interface{}) {
	t.hub.AddBreadcrumb(&sentry.Breadcrumb{
		Message:  message,
		Category: category,
		Level:    toSentryLevel(level),
		Data:     data,
	}, nil)
}

// Flush waits up to two seconds for buffered events to reach Sentry
func (t *Tracker) Flush(ctx context.Context) error {
	sentry.Flush(2 * time.Second)
	return nil
}

// withScope runs capture on a cloned hub so per-event tags never leak
// into other requests
func (t *Tracker) withScope(tags map[string]string, level *sentry.Level, capture func(*sentry.Hub)) {
	hub := t.hub.Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		for k, v := range tags {
			scope.SetTag(k, v)
		}
		if level != nil {
			scope.SetLevel(*level)
		}
	})
	capture(hub)
}
