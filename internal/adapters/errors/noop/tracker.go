package noop

import (
	"context"

	"gridiron/pkg/errors"
)

// Tracker discards everything. Used when error tracking is disabled and as
// the fallback when Sentry fails to initialize.
type Tracker struct{}

func New() *Tracker { return &Tracker{} }

func (Tracker) CaptureError(context.Context, error, map[string]string) error { return nil }

func (Tracker) CaptureMessage(context.Context, string, errors.Level, map[string]string) error {
	return nil
}

func (Tracker) AddBreadcrumb(context.Context, string, string, errors.Level, map[string]interface{}) {
}

func (Tracker) Flush(context.Context) error { return nil }
