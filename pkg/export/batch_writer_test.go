package export

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	// Ensure single connection to avoid separate in-memory DBs per connection.
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestBatchWriterTransactions(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Exec("CREATE TABLE test (id INTEGER PRIMARY KEY, val TEXT)"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	bw := NewBatchWriter(context.Background(), db, 2, 0)
	for _, v := range []string{"甲", "乙", "丙"} {
		val := v
		if err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
			_, err := tx.Exec("INSERT INTO test (val) VALUES (?)", val)
			return err
		}); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	doneCh := make(chan error, 1)
	go func() { doneCh <- bw.Close() }()
	select {
	case err := <-doneCh:
		if err != nil {
			t.Fatalf("close failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for batch commit/close")
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM test").Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 rows, got %d", count)
	}
	if got := bw.Committed(); got != 3 {
		t.Fatalf("expected 3 committed writes, got %d", got)
	}
}

func TestBatchWriterRollback(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Exec("CREATE TABLE test (id INTEGER PRIMARY KEY, val TEXT)"); err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	bw := NewBatchWriter(context.Background(), db, 2, 0)
	var mu sync.Mutex
	var reported []error
	bw.OnError = func(e error) {
		mu.Lock()
		reported = append(reported, e)
		mu.Unlock()
	}

	intentional := errors.New("intentional error")
	bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO test (val) VALUES (?)", "C")
		return err
	})
	bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
		return intentional
	})

	if err := bw.Close(); !errors.Is(err, intentional) {
		t.Fatalf("expected Close to return the batch error, got %v", err)
	}
	mu.Lock()
	if len(reported) != 1 {
		t.Fatalf("expected OnError once, got %d", len(reported))
	}
	mu.Unlock()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM test").Scan(&count); err != nil {
		t.Fatalf("failed to query row count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 rows (rollback), got %d", count)
	}
	if bw.Committed() != 0 {
		t.Fatalf("expected nothing committed, got %d", bw.Committed())
	}
}

func TestBatchWriterStopsAfterFailure(t *testing.T) {
	bw := NewBatchWriter(context.Background(), nil, 1, 0)
	var reported int
	bw.OnError = func(error) { reported++ }

	rejected := errors.New("rejected")
	if err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error { return rejected }); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for bw.Err() == nil {
		if time.Now().After(deadline) {
			t.Fatal("failed batch was never committed")
		}
		time.Sleep(time.Millisecond)
	}

	ran := false
	if err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
		ran = true
		return nil
	}); !errors.Is(err, rejected) {
		t.Fatalf("expected Submit to report the failure, got %v", err)
	}
	if err := bw.Close(); !errors.Is(err, rejected) {
		t.Fatalf("expected Close to report the failure, got %v", err)
	}
	if ran {
		t.Fatal("write submitted after the failure must not run")
	}
	if reported != 1 {
		t.Fatalf("expected OnError once, got %d", reported)
	}
}

func TestBatchWriterFlushesBySize(t *testing.T) {
	bw := NewBatchWriter(context.Background(), nil, 5, 0)
	var mu sync.Mutex
	called := 0
	for i := 0; i < 12; i++ {
		if err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
			mu.Lock()
			called++
			mu.Unlock()
			return nil
		}); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if called != 12 {
		t.Fatalf("expected 12 calls, got %d", called)
	}
}

func TestBatchWriterFlushesOnInterval(t *testing.T) {
	bw := NewBatchWriter(context.Background(), nil, 10, 20*time.Millisecond)
	done := make(chan struct{})
	if err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error {
		close(done)
		return nil
	}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("interval flush did not run the write")
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestBatchWriterSubmitAfterClose(t *testing.T) {
	bw := NewBatchWriter(context.Background(), nil, 1, 0)
	if err := bw.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if err := bw.Submit(func(ctx context.Context, tx *sql.Tx) error { return nil }); !errors.Is(err, ErrBatchWriterClosed) {
		t.Fatalf("expected ErrBatchWriterClosed, got %v", err)
	}
	if err := bw.Close(); !errors.Is(err, ErrBatchWriterClosed) {
		t.Fatalf("expected ErrBatchWriterClosed on second close, got %v", err)
	}
}
