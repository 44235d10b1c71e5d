package export

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/japaniel/c42/pkg/db"
	"github.com/japaniel/c42/pkg/dictionary"
)

func TestExporter_Export(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, db.InitDB(conn))

	snap := Snapshot{
		Name:    "c42",
		Version: "test",
		Entries: []dictionary.Entry{
			{Name: "好", Code: "h", Weight: 10},
			{Name: "好", Code: "nzH", Weight: 0},
			{Name: "马", Code: "mMA", Weight: 10},
		},
		Hints: []dictionary.Hint{
			{Name: "好", Text: "女子Ｈ"},
			{Name: "马", Text: "木ＭＡ"},
		},
		Associations: []dictionary.Association{
			{Word: "好人", Leader: "好", Weight: 1},
		},
	}

	ex := NewExporter(conn, 2)
	var progress int
	ex.OnProgress = func(n int) { progress = n }

	buildID, err := ex.Export(context.Background(), snap)
	require.NoError(t, err)
	require.NotEmpty(t, buildID)
	assert.Equal(t, 6, progress)

	entries, hints, assoc, err := db.Counts(conn, buildID)
	require.NoError(t, err)
	assert.Equal(t, 3, entries)
	assert.Equal(t, 2, hints)
	assert.Equal(t, 1, assoc)

	rows, err := db.GetEntriesByName(conn, buildID, "好")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "h", rows[0].Code)
	assert.Equal(t, 0, rows[1].Weight)

	b, err := db.GetBuild(conn, buildID)
	require.NoError(t, err)
	assert.Equal(t, "c42", b.DictionaryName)
	assert.NotNil(t, b.FinishedAt)
}

func TestExporter_CanceledContext(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, db.InitDB(conn))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExporter(conn, 10).Export(ctx, Snapshot{
		Entries: []dictionary.Entry{{Name: "马", Code: "m", Weight: 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, countBuilds(t, conn), "canceled build is discarded")
}

func TestExporter_FailedBatchDiscardsBuild(t *testing.T) {
	conn := openTestDB(t)
	require.NoError(t, db.InitDB(conn))
	_, err := conn.Exec(`CREATE TRIGGER reject_hints BEFORE INSERT ON hints
		BEGIN SELECT RAISE(ABORT, 'hint rejected'); END`)
	require.NoError(t, err)

	_, err = NewExporter(conn, 2).Export(context.Background(), Snapshot{
		Name: "c42",
		Entries: []dictionary.Entry{
			{Name: "好", Code: "h", Weight: 10},
			{Name: "好", Code: "nzH", Weight: 0},
			{Name: "马", Code: "mMA", Weight: 10},
		},
		Hints: []dictionary.Hint{{Name: "好", Text: "女子Ｈ"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hint rejected")

	assert.Zero(t, countBuilds(t, conn))
	var entries int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM entries`).Scan(&entries))
	assert.Zero(t, entries, "rows of the committed first batch are removed too")
}

func countBuilds(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow(`SELECT COUNT(*) FROM builds`).Scan(&n))
	return n
}
