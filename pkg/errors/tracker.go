package errors

import "context"

// Level is the severity attached to tracked errors and messages
type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
	LevelFatal   Level = "fatal"
)

func (l Level) String() string { return string(l) }

// Tracker reports errors to an external tracking service. The serving path
// treats it as fire-and-forget; implementations must never block on the
// network beyond Flush.
type Tracker interface {
	CaptureError(ctx context.Context, err error, tags map[string]string) error
	CaptureMessage(ctx context.Context, message string, level Level, tags map[string]string) error
	AddBreadcrumb(ctx context.Context, message string, category string, level Level, data map[string]interface{})

	// Flush blocks until buffered events are delivered or the context ends
	Flush(ctx context.Context) error
}
