// Package export writes a compiled dictionary into the SQLite snapshot.
package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/japaniel/c42/pkg/db"
	"github.com/japaniel/c42/pkg/dictionary"
)

// Snapshot is everything one build produced.
type Snapshot struct {
	Name         string
	Version      string
	Entries      []dictionary.Entry
	Hints        []dictionary.Hint
	Associations []dictionary.Association
}

// Exporter streams snapshots into the database.
type Exporter struct {
	DB        *sql.DB
	BatchSize int
	// OnProgress is called after the writes are queued with the number of
	// rows submitted.
	OnProgress func(submitted int)

	now func() time.Time
}

// NewExporter creates an Exporter.
func NewExporter(conn *sql.DB, batchSize int) *Exporter {
	return &Exporter{
		DB:        conn,
		BatchSize: batchSize,
		now:       time.Now,
	}
}

// Export records a new build and stores every row of s under it. It
// returns the build id. A build that fails or is canceled part way is
// deleted, so every build left in the store is complete.
func (ex *Exporter) Export(ctx context.Context, s Snapshot) (string, error) {
	buildID, err := db.CreateBuild(ex.DB, s.Name, s.Version, ex.now())
	if err != nil {
		return "", err
	}

	if err := ex.store(ctx, buildID, s); err != nil {
		if delErr := db.DeleteBuild(ex.DB, buildID); delErr != nil {
			return "", fmt.Errorf("export build %s: %w", buildID, errors.Join(err, delErr))
		}
		return "", fmt.Errorf("export build %s: %w", buildID, err)
	}
	return buildID, nil
}

func (ex *Exporter) store(ctx context.Context, buildID string, s Snapshot) error {
	bw := NewBatchWriter(ctx, ex.DB, ex.BatchSize, 0)

	submitted := 0
	submit := func(w WriteFunc) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := bw.Submit(w); err != nil {
			return err
		}
		submitted++
		return nil
	}

	err := ex.submitAll(buildID, s, submit)
	if closeErr := bw.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}
	if ex.OnProgress != nil {
		ex.OnProgress(submitted)
	}
	return db.FinishBuild(ex.DB, buildID, ex.now())
}

func (ex *Exporter) submitAll(buildID string, s Snapshot, submit func(WriteFunc) error) error {
	for i, e := range s.Entries {
		row := db.Entry{Position: i, Name: e.Name, Code: e.Code, Weight: e.Weight}
		if err := submit(func(ctx context.Context, tx *sql.Tx) error {
			if err := db.InsertEntry(tx, buildID, row); err != nil {
				return fmt.Errorf("insert entry %s: %w", row.Name, err)
			}
			return nil
		}); err != nil {
			return err
		}
	}
	for i, h := range s.Hints {
		row := db.Hint{Position: i, Name: h.Name, Hint: h.Text}
		if err := submit(func(ctx context.Context, tx *sql.Tx) error {
			if err := db.InsertHint(tx, buildID, row); err != nil {
				return fmt.Errorf("insert hint %s: %w", row.Name, err)
			}
			return nil
		}); err != nil {
			return err
		}
	}
	for i, a := range s.Associations {
		row := db.Association{Position: i, Word: a.Word, Leader: a.Leader, Weight: a.Weight}
		if err := submit(func(ctx context.Context, tx *sql.Tx) error {
			if err := db.InsertAssociation(tx, buildID, row); err != nil {
				return fmt.Errorf("insert association %s: %w", row.Word, err)
			}
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}
