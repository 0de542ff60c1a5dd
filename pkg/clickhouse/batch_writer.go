package clickhouse

import (
	"context"
	"sync"
	"time"

	"gridiron/pkg/logger"
)

// FlushFunc persists one drained batch of rows.
type FlushFunc func(ctx context.Context, batch []interface{}) error

// BatchWriterConfig configures a BatchWriter.
type BatchWriterConfig struct {
	FlushFunc    FlushFunc
	TableName    string
	MaxBatchSize int           // drain threshold, default 500
	MaxAge       time.Duration // interval flush period, default 5s
}

// BatchWriter buffers rows in memory and drains them through FlushFunc when
// the buffer fills or the flush interval elapses. ClickHouse merge trees want
// wide inserts; row-at-a-time writes would thrash them.
type BatchWriter struct {
	cfg BatchWriterConfig
	log *logger.Logger

	mu      sync.Mutex
	pending []interface{}
	running bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewBatchWriter creates a writer. Size-triggered flushes work immediately;
// interval flushes need Start.
func NewBatchWriter(cfg BatchWriterConfig) *BatchWriter {
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 500
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 5 * time.Second
	}
	return &BatchWriter{
		cfg:     cfg,
		pending: make([]interface{}, 0, cfg.MaxBatchSize),
		done:    make(chan struct{}),
		log:     logger.Get().With("component", "batch_writer", "table", cfg.TableName),
	}
}

// Start launches the interval flush loop
func (bw *BatchWriter) Start(ctx context.Context) {
	bw.mu.Lock()
	if bw.running {
		bw.mu.Unlock()
		return
	}
	bw.running = true
	bw.mu.Unlock()

	bw.wg.Add(1)
	go bw.run(ctx)

	bw.log.Infof("Batch writer started (max_batch=%d, max_age=%v)", bw.cfg.MaxBatchSize, bw.cfg.MaxAge)
}

// Add buffers one row, draining synchronously when the buffer is full
func (bw *BatchWriter) Add(ctx context.Context, row interface{}) error {
	bw.mu.Lock()
	bw.pending = append(bw.pending, row)
	full := len(bw.pending) >= bw.cfg.MaxBatchSize
	bw.mu.Unlock()

	if full {
		return bw.Flush(ctx)
	}
	return nil
}

// Flush drains whatever is buffered right now. The sink runs outside the
// lock so concurrent Adds keep buffering during a slow insert.
func (bw *BatchWriter) Flush(ctx context.Context) error {
	batch := bw.drain()
	if len(batch) == 0 {
		return nil
	}

	start := time.Now()
	if err := bw.cfg.FlushFunc(ctx, batch); err != nil {
		bw.log.Errorf("Flush of %d rows into %s failed after %v: %v",
			len(batch), bw.cfg.TableName, time.Since(start), err)
		return err
	}

	bw.log.Debugf("Flushed %d rows into %s in %v", len(batch), bw.cfg.TableName, time.Since(start))
	return nil
}

func (bw *BatchWriter) drain() []interface{} {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if len(bw.pending) == 0 {
		return nil
	}
	batch := bw.pending
	bw.pending = make([]interface{}, 0, bw.cfg.MaxBatchSize)
	return batch
}

func (bw *BatchWriter) run(ctx context.Context) {
	defer bw.wg.Done()

	ticker := time.NewTicker(bw.cfg.MaxAge)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := bw.Flush(ctx); err != nil {
				bw.log.Warnf("Interval flush failed: %v", err)
			}
		case <-bw.done:
			bw.finalFlush()
			return
		case <-ctx.Done():
			bw.finalFlush()
			return
		}
	}
}

// finalFlush runs on a fresh context; the triggering one is already done
func (bw *BatchWriter) finalFlush() {
	if err := bw.Flush(context.Background()); err != nil {
		bw.log.Errorf("Final flush failed: %v", err)
	}
}

// Stop drains remaining rows and waits for the loop to exit
func (bw *BatchWriter) Stop(ctx context.Context) error {
	bw.mu.Lock()
	if !bw.running {
		bw.mu.Unlock()
		return nil
	}
	bw.running = false
	bw.mu.Unlock()

	close(bw.done)

	finished := make(chan struct{})
	go func() {
		bw.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		bw.log.Warn("Batch writer stop timed out")
		return ctx.Err()
	}
}

// BufferSize reports rows currently waiting to be flushed
func (bw *BatchWriter) BufferSize() int {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	return len(bw.pending)
}
