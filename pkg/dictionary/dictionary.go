// Package dictionary compiles decompositions, readings, root keys and corpus
// frequencies into the code table of the c42 input method.
package dictionary

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/japaniel/c42/pkg/table"
)

// Placeholder pads decompositions that have no reading to draw fallback
// letters from. It is emitted verbatim as a code character.
const Placeholder = "?"

// DefaultImportance is the full-strength baseline: a weight is the
// character frequency scaled by importance/DefaultImportance.
const DefaultImportance = 100

// Reading is one pronunciation of a character. A character may have several.
type Reading struct {
	Name       string
	Pinyin     string
	Importance int
}

// Assembly is a character with its padded three-element decomposition and
// the summed importance of every reading that produced the same sequence.
type Assembly struct {
	Name       string
	Elements   []string
	Importance int
}

// Entry is one row of the compiled dictionary.
type Entry struct {
	Name   string
	Code   string
	Weight int
}

// Hint is the human-readable decomposition shown next to a candidate.
type Hint struct {
	Name string
	Text string
}

// Association ranks a phrase under its leading character.
type Association struct {
	Word   string
	Leader string
	Weight int
}

// Decompositions maps a character to its element sequence, keeping the
// order in which characters first appeared in the source table.
type Decompositions struct {
	names    []string
	elements map[string][]string
}

// NewDecompositions returns an empty table.
func NewDecompositions() *Decompositions {
	return &Decompositions{elements: make(map[string][]string)}
}

// Set stores the sequence for name. A repeated name replaces the sequence
// but keeps its original position.
func (d *Decompositions) Set(name string, elements []string) {
	if _, ok := d.elements[name]; !ok {
		d.names = append(d.names, name)
	}
	d.elements[name] = elements
}

// Get returns the stored sequence. Callers must not modify it.
func (d *Decompositions) Get(name string) ([]string, bool) {
	e, ok := d.elements[name]
	return e, ok
}

// Names returns the characters in first-seen order.
func (d *Decompositions) Names() []string {
	return d.names
}

// Len returns the number of characters.
func (d *Decompositions) Len() int {
	return len(d.names)
}

// Overrides maps a word to a manually curated code, keeping table order.
type Overrides struct {
	words []string
	codes map[string]string
}

// NewOverrides builds an override table from (word, code) pairs. Later
// pairs for the same word replace the code.
func NewOverrides(pairs [][2]string) *Overrides {
	o := &Overrides{codes: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		if _, ok := o.codes[p[0]]; !ok {
			o.words = append(o.words, p[0])
		}
		o.codes[p[0]] = p[1]
	}
	return o
}

// Code returns the override code for word.
func (o *Overrides) Code(word string) (string, bool) {
	if o == nil {
		return "", false
	}
	c, ok := o.codes[word]
	return c, ok
}

// Words returns the overridden words in table order.
func (o *Overrides) Words() []string {
	if o == nil {
		return nil
	}
	return o.words
}

// Len returns the number of overridden words.
func (o *Overrides) Len() int {
	if o == nil {
		return 0
	}
	return len(o.words)
}

// ReadingsFromTable converts rows with columns name, pinyin, importance.
// Rows whose importance is not an integer are skipped with a warning.
func ReadingsFromTable(t *table.Table, log *slog.Logger) []Reading {
	readings := make([]Reading, 0, len(t.Rows))
	for _, row := range t.Rows {
		name := row.Get("name")
		importance, err := strconv.Atoi(strings.TrimSpace(row.Get("importance")))
		if err != nil {
			log.Warn("skip reading: bad importance",
				slog.String("name", name),
				slog.String("importance", row.Get("importance")))
			continue
		}
		readings = append(readings, Reading{
			Name:       name,
			Pinyin:     row.Get("pinyin"),
			Importance: importance,
		})
	}
	return readings
}

// DecompositionsFromTable converts rows with columns name, analysis where
// analysis is a space-delimited element sequence.
func DecompositionsFromTable(t *table.Table) *Decompositions {
	d := NewDecompositions()
	for _, row := range t.Rows {
		d.Set(row.Get("name"), strings.Split(row.Get("analysis"), " "))
	}
	return d
}

// FrequencyFromTable converts rows with columns name, frequency. Rows whose
// frequency is not an integer are skipped with a warning.
func FrequencyFromTable(t *table.Table, log *slog.Logger) []FrequencyRow {
	rows := make([]FrequencyRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		name := row.Get("name")
		count, err := strconv.Atoi(strings.TrimSpace(row.Get("frequency")))
		if err != nil {
			log.Warn("skip frequency: bad count",
				slog.String("name", name),
				slog.String("frequency", row.Get("frequency")))
			continue
		}
		rows = append(rows, FrequencyRow{Word: name, Count: count})
	}
	return rows
}

// RootsFromTable converts rows with columns root, key, alias.
func RootsFromTable(t *table.Table) []RootRow {
	rows := make([]RootRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		rows = append(rows, RootRow{
			Root:  row.Get("root"),
			Key:   row.Get("key"),
			Alias: row.Get("alias"),
		})
	}
	return rows
}
