package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// CreateBuild records the start of a compiler run and returns its id.
func CreateBuild(db DBExecutor, name, version string, startedAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO builds (id, dictionary_name, dictionary_version, started_at) VALUES (?, ?, ?, ?)`,
		id, strings.TrimSpace(name), strings.TrimSpace(version), startedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("insert build: %w", err)
	}
	return id, nil
}

// FinishBuild stamps the build as complete.
func FinishBuild(db DBExecutor, buildID string, finishedAt time.Time) error {
	res, err := db.Exec(`UPDATE builds SET finished_at = ? WHERE id = ?`, finishedAt.UTC(), buildID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("build %s not found", buildID)
	}
	return nil
}

// DeleteBuild removes a build and every row stored under it. Child rows
// are deleted explicitly so connections without foreign keys behave the same.
func DeleteBuild(db DBExecutor, buildID string) error {
	for _, table := range []string{"entries", "hints", "associations"} {
		if _, err := db.Exec(`DELETE FROM `+table+` WHERE build_id = ?`, buildID); err != nil {
			return fmt.Errorf("delete %s of build %s: %w", table, buildID, err)
		}
	}
	if _, err := db.Exec(`DELETE FROM builds WHERE id = ?`, buildID); err != nil {
		return fmt.Errorf("delete build %s: %w", buildID, err)
	}
	return nil
}

// GetBuild returns a recorded build.
func GetBuild(db DBExecutor, buildID string) (Build, error) {
	var b Build
	var name, version sql.NullString
	var finished sql.NullTime
	err := db.QueryRow(
		`SELECT id, dictionary_name, dictionary_version, started_at, finished_at FROM builds WHERE id = ?`, buildID,
	).Scan(&b.ID, &name, &version, &b.StartedAt, &finished)
	if err != nil {
		return Build{}, err
	}
	b.DictionaryName = name.String
	b.DictionaryVersion = version.String
	if finished.Valid {
		t := finished.Time
		b.FinishedAt = &t
	}
	return b, nil
}

// InsertEntry stores a dictionary row at position within the build.
func InsertEntry(db DBExecutor, buildID string, e Entry) error {
	if buildID == "" {
		return fmt.Errorf("buildID must be non-empty")
	}
	_, err := db.Exec(
		`INSERT INTO entries (build_id, position, name, code, weight) VALUES (?, ?, ?, ?, ?)`,
		buildID, e.Position, e.Name, e.Code, e.Weight,
	)
	return err
}

// InsertHint stores a hint row at position within the build.
func InsertHint(db DBExecutor, buildID string, h Hint) error {
	if buildID == "" {
		return fmt.Errorf("buildID must be non-empty")
	}
	_, err := db.Exec(
		`INSERT INTO hints (build_id, position, name, hint) VALUES (?, ?, ?, ?)`,
		buildID, h.Position, h.Name, h.Hint,
	)
	return err
}

// InsertAssociation stores an association row at position within the build.
func InsertAssociation(db DBExecutor, buildID string, a Association) error {
	if buildID == "" {
		return fmt.Errorf("buildID must be non-empty")
	}
	_, err := db.Exec(
		`INSERT INTO associations (build_id, position, word, leader, weight) VALUES (?, ?, ?, ?, ?)`,
		buildID, a.Position, a.Word, a.Leader, a.Weight,
	)
	return err
}

// GetEntriesByName returns the rows of a character in output order.
func GetEntriesByName(db DBExecutor, buildID, name string) ([]Entry, error) {
	rows, err := db.Query(
		`SELECT position, name, code, weight FROM entries WHERE build_id = ? AND name = ? ORDER BY position`,
		buildID, name,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Position, &e.Name, &e.Code, &e.Weight); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAssociationsByLeader returns the ranked words of a leading character.
func GetAssociationsByLeader(db DBExecutor, buildID, leader string) ([]Association, error) {
	rows, err := db.Query(
		`SELECT position, word, leader, weight FROM associations WHERE build_id = ? AND leader = ? ORDER BY position`,
		buildID, leader,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Association
	for rows.Next() {
		var a Association
		if err := rows.Scan(&a.Position, &a.Word, &a.Leader, &a.Weight); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Counts returns the number of entries, hints and associations of a build.
func Counts(db DBExecutor, buildID string) (entries, hints, associations int, err error) {
	err = db.QueryRow(`SELECT
		(SELECT COUNT(*) FROM entries WHERE build_id = ?),
		(SELECT COUNT(*) FROM hints WHERE build_id = ?),
		(SELECT COUNT(*) FROM associations WHERE build_id = ?)`,
		buildID, buildID, buildID,
	).Scan(&entries, &hints, &associations)
	return entries, hints, associations, err
}
