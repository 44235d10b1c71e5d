package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// WriteFunc performs one row write inside the batch transaction.
type WriteFunc func(ctx context.Context, tx *sql.Tx) error

// ErrBatchWriterClosed is returned by Submit and Close after Close.
var ErrBatchWriterClosed = errors.New("batch writer closed")

// BatchWriter groups row writes into transactions of up to size writes.
// Batches are committed in submission order by a single goroutine. The
// first failed batch stops the writer: later batches are discarded and
// Submit returns the failure.
type BatchWriter struct {
	db   *sql.DB
	size int

	mu      sync.Mutex
	pending []WriteFunc
	closed  bool

	batches chan []WriteFunc
	ctx     context.Context
	stop    context.CancelFunc
	ticker  *time.Ticker
	wg      sync.WaitGroup

	// OnError is called once, with the failure that stopped the writer.
	OnError func(error)

	committed atomic.Int64

	errMu sync.Mutex
	err   error
}

// NewBatchWriter starts a writer committing to db. A batch is dispatched
// when size writes are pending or, if flushInterval is positive, when the
// interval elapses. Canceling ctx fails batches that are still waiting to
// be dispatched.
func NewBatchWriter(ctx context.Context, db *sql.DB, size int, flushInterval time.Duration) *BatchWriter {
	if size <= 0 {
		size = 100
	}
	ctx, stop := context.WithCancel(ctx)
	bw := &BatchWriter{
		db:      db,
		size:    size,
		batches: make(chan []WriteFunc, 2),
		ctx:     ctx,
		stop:    stop,
	}

	bw.wg.Add(1)
	go bw.run()

	if flushInterval > 0 {
		bw.ticker = time.NewTicker(flushInterval)
		bw.wg.Add(1)
		go bw.tick()
	}
	return bw
}

// Submit queues a write. It fails once the writer is closed or stopped.
func (bw *BatchWriter) Submit(w WriteFunc) error {
	bw.mu.Lock()
	defer bw.mu.Unlock()
	if bw.closed {
		return ErrBatchWriterClosed
	}
	if err := bw.Err(); err != nil {
		return err
	}
	bw.pending = append(bw.pending, w)
	if len(bw.pending) >= bw.size {
		bw.dispatchLocked()
	}
	return nil
}

// Committed returns how many writes have been committed so far.
func (bw *BatchWriter) Committed() int64 {
	return bw.committed.Load()
}

// Err returns the failure that stopped the writer, if any.
func (bw *BatchWriter) Err() error {
	bw.errMu.Lock()
	defer bw.errMu.Unlock()
	return bw.err
}

// Close dispatches what is pending, waits for the committer and returns
// the failure that stopped the writer, if any.
func (bw *BatchWriter) Close() error {
	bw.mu.Lock()
	if bw.closed {
		bw.mu.Unlock()
		return ErrBatchWriterClosed
	}
	bw.closed = true
	if bw.ticker != nil {
		bw.ticker.Stop()
	}
	bw.dispatchLocked()
	bw.mu.Unlock()

	bw.stop()
	close(bw.batches)
	bw.wg.Wait()
	return bw.Err()
}

// dispatchLocked hands the pending writes to the committer. bw.mu must be
// held; a full queue blocks Submit.
func (bw *BatchWriter) dispatchLocked() {
	if len(bw.pending) == 0 {
		return
	}
	batch := bw.pending
	bw.pending = make([]WriteFunc, 0, bw.size)

	select {
	case bw.batches <- batch:
	case <-bw.ctx.Done():
		bw.fail(fmt.Errorf("batch writer: discarding %d writes: %w", len(batch), bw.ctx.Err()))
	}
}

func (bw *BatchWriter) fail(err error) {
	bw.errMu.Lock()
	first := bw.err == nil
	if first {
		bw.err = err
	}
	bw.errMu.Unlock()
	if first && bw.OnError != nil {
		bw.OnError(err)
	}
}

func (bw *BatchWriter) run() {
	defer bw.wg.Done()
	for batch := range bw.batches {
		if bw.Err() != nil {
			continue
		}
		if err := bw.commit(batch); err != nil {
			bw.fail(err)
			continue
		}
		bw.committed.Add(int64(len(batch)))
	}
}

// commit runs batch in one transaction. Without a db the writes get a nil
// tx. The transaction ignores bw.ctx so Close can drain after a cancel.
func (bw *BatchWriter) commit(batch []WriteFunc) error {
	ctx := context.Background()
	if bw.db == nil {
		for _, w := range batch {
			if err := w(ctx, nil); err != nil {
				return err
			}
		}
		return nil
	}

	tx, err := bw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	for _, w := range batch {
		if err := w(ctx, tx); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch of %d writes: %w", len(batch), err)
	}
	return nil
}

func (bw *BatchWriter) tick() {
	defer bw.wg.Done()
	for {
		select {
		case <-bw.ctx.Done():
			return
		case <-bw.ticker.C:
			bw.mu.Lock()
			if !bw.closed {
				bw.dispatchLocked()
			}
			bw.mu.Unlock()
		}
	}
}
