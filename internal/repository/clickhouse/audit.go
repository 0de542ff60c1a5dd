package clickhouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	ch "gridiron/pkg/clickhouse"
	"gridiron/pkg/errors"
	"gridiron/pkg/logger"
)

// AuditEvent is one projection pipeline outcome, success or failure.
// Written for every request so operators can answer "what did we serve,
// with which model, and why did requests fail" without log archaeology.
type AuditEvent struct {
	RequestID  string
	PlayerID   int64
	MarketCode string
	ModelName  string
	Lookback   int32
	Status     string
	Detail     string
	Prediction float64
	LatencyMS  float64
	CreatedAt  time.Time
}

// AuditWriter batches projection audit events into ClickHouse
type AuditWriter struct {
	writer *ch.BatchWriter
	log    *logger.Logger
}

// NewAuditWriter creates an audit writer over a ClickHouse connection
func NewAuditWriter(conn driver.Conn) *AuditWriter {
	w := &AuditWriter{
		log: logger.Get().With("component", "projection_audit"),
	}

	w.writer = ch.NewBatchWriter(ch.BatchWriterConfig{
		TableName:    "projection_audit",
		MaxBatchSize: 500,
		MaxAge:       5 * time.Second,
		FlushFunc: func(ctx context.Context, batch []interface{}) error {
			return flushAudit(ctx, conn, batch)
		},
	})

	return w
}

// Start begins background flushing
func (w *AuditWriter) Start(ctx context.Context) {
	w.writer.Start(ctx)
}

// Stop flushes remaining events and shuts down
func (w *AuditWriter) Stop(ctx context.Context) error {
	return w.writer.Stop(ctx)
}

// Record buffers one audit event. Never blocks the serving path on
// ClickHouse: buffer errors are logged and dropped.
func (w *AuditWriter) Record(ctx context.Context, event AuditEvent) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if err := w.writer.Add(ctx, event); err != nil {
		w.log.Warnf("Failed to buffer audit event: %v", err)
	}
}

func flushAudit(ctx context.Context, conn driver.Conn, items []interface{}) error {
	batch, err := conn.PrepareBatch(ctx, `
		INSERT INTO projection_audit
		  (request_id, player_id, market_code, model_name, lookback,
		   status, detail, prediction, latency_ms, created_at)`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare audit batch")
	}

	for _, item := range items {
		event, ok := item.(AuditEvent)
		if !ok {
			continue
		}
		if err := batch.Append(
			event.RequestID, event.PlayerID, event.MarketCode, event.ModelName,
			event.Lookback, event.Status, event.Detail, event.Prediction,
			event.LatencyMS, event.CreatedAt,
		); err != nil {
			return errors.Wrap(err, "failed to append audit event")
		}
	}

	return batch.Send()
}
