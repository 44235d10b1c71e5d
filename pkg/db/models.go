package db

import "time"

// Build is one compiler run recorded in the snapshot.
type Build struct {
	ID                string
	DictionaryName    string
	DictionaryVersion string
	StartedAt         time.Time
	FinishedAt        *time.Time
}

// Entry is a stored dictionary row.
type Entry struct {
	Position int
	Name     string
	Code     string
	Weight   int
}

// Hint is a stored decomposition hint.
type Hint struct {
	Position int
	Name     string
	Hint     string
}

// Association is a stored phrase-association row.
type Association struct {
	Position int
	Word     string
	Leader   string
	Weight   int
}
