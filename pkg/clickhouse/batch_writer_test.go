package clickhouse

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// batchRecorder is a FlushFunc capturing every drained batch
type batchRecorder struct {
	mu      sync.Mutex
	batches [][]interface{}
}

func (r *batchRecorder) flush(ctx context.Context, batch []interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, batch)
	return nil
}

func (r *batchRecorder) flushCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func (r *batchRecorder) rowCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range r.batches {
		n += len(b)
	}
	return n
}

func TestBatchWriter_DrainsWhenFull(t *testing.T) {
	rec := &batchRecorder{}
	bw := NewBatchWriter(BatchWriterConfig{
		FlushFunc:    rec.flush,
		TableName:    "audit_test",
		MaxBatchSize: 3,
		MaxAge:       time.Hour,
	})

	ctx := context.Background()
	require.NoError(t, bw.Add(ctx, 1))
	require.NoError(t, bw.Add(ctx, 2))
	assert.Equal(t, 0, rec.flushCount(), "under threshold, nothing drained")

	require.NoError(t, bw.Add(ctx, 3))
	assert.Equal(t, 1, rec.flushCount())
	assert.Equal(t, 3, rec.rowCount())
	assert.Equal(t, 0, bw.BufferSize())
}

func TestBatchWriter_DrainsOnInterval(t *testing.T) {
	rec := &batchRecorder{}
	bw := NewBatchWriter(BatchWriterConfig{
		FlushFunc:    rec.flush,
		TableName:    "audit_test",
		MaxBatchSize: 100,
		MaxAge:       50 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bw.Start(ctx)

	require.NoError(t, bw.Add(ctx, "a"))
	require.NoError(t, bw.Add(ctx, "b"))

	assert.Eventually(t, func() bool {
		return rec.rowCount() == 2
	}, time.Second, 10*time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	require.NoError(t, bw.Stop(stopCtx))
}

func TestBatchWriter_StopDrainsBuffer(t *testing.T) {
	rec := &batchRecorder{}
	bw := NewBatchWriter(BatchWriterConfig{
		FlushFunc:    rec.flush,
		TableName:    "audit_test",
		MaxBatchSize: 100,
		MaxAge:       time.Hour,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bw.Start(ctx)

	for i := 0; i < 3; i++ {
		require.NoError(t, bw.Add(ctx, i))
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	require.NoError(t, bw.Stop(stopCtx))

	assert.Equal(t, 3, rec.rowCount(), "pending rows drain on stop")
	assert.Equal(t, 0, bw.BufferSize())
}

func TestBatchWriter_StopWithoutStartIsNoop(t *testing.T) {
	bw := NewBatchWriter(BatchWriterConfig{
		FlushFunc: func(ctx context.Context, batch []interface{}) error { return nil },
		TableName: "audit_test",
	})

	require.NoError(t, bw.Stop(context.Background()))
}

func TestBatchWriter_ConcurrentAdds(t *testing.T) {
	rec := &batchRecorder{}
	bw := NewBatchWriter(BatchWriterConfig{
		FlushFunc:    rec.flush,
		TableName:    "audit_test",
		MaxBatchSize: 10,
		MaxAge:       time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	bw.Start(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = bw.Add(ctx, n)
		}(i)
	}
	wg.Wait()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()
	require.NoError(t, bw.Stop(stopCtx))

	assert.Equal(t, 50, rec.rowCount(), "no row lost or duplicated")
}

func TestBatchWriter_FlushErrorSurfacesToCaller(t *testing.T) {
	sinkErr := errors.New("connection refused")
	bw := NewBatchWriter(BatchWriterConfig{
		FlushFunc:    func(ctx context.Context, batch []interface{}) error { return sinkErr },
		TableName:    "audit_test",
		MaxBatchSize: 1,
	})

	err := bw.Add(context.Background(), "row")
	assert.ErrorIs(t, err, sinkErr)
}
