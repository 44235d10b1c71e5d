// Package rime reads and writes the flat text tables consumed by the Rime
// input-method engine: the *.dict.yaml code table, the decomposition hint
// table read by the Lua filter, and the phrase-association import table.
package rime

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/japaniel/c42/pkg/dictionary"
)

// Header is the YAML document at the top of a Rime dictionary, between
// the "---" and "..." markers.
type Header struct {
	Name    string   `yaml:"name"`
	Version string   `yaml:"version"`
	Sort    string   `yaml:"sort"`
	Columns []string `yaml:"columns"`
	Import  []string `yaml:"import_tables"`
}

// Base is the pre-seeded dictionary file the compiled entries are appended to.
type Base struct {
	Header Header
	Lines  []string
}

// LoadBase reads the dictionary at path. The file must exist; a file with
// no "..." terminator is treated as having an empty header.
func LoadBase(path string) (*Base, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read base dictionary: %w", err)
	}
	lines := strings.Split(string(data), "\n")

	base := &Base{Lines: lines}
	if doc, ok := headerDocument(lines); ok {
		if err := yaml.Unmarshal([]byte(doc), &base.Header); err != nil {
			return nil, fmt.Errorf("decode header of %s: %w", path, err)
		}
	}
	return base, nil
}

func headerDocument(lines []string) (string, bool) {
	for i, l := range lines {
		if strings.TrimRight(l, "\r") == "..." {
			return strings.Join(lines[:i], "\n"), true
		}
	}
	return "", false
}

// HasColumn reports whether the header declares column. A header without
// columns uses Rime's default text, code, weight.
func (h Header) HasColumn(column string) bool {
	if len(h.Columns) == 0 {
		return column == "text" || column == "code" || column == "weight"
	}
	for _, c := range h.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// WriteDictionary writes the base lines followed by one line per entry.
func WriteDictionary(path string, base *Base, entries []dictionary.Entry) error {
	lines := make([]string, 0, len(base.Lines)+len(entries))
	lines = append(lines, base.Lines...)
	for _, e := range entries {
		lines = append(lines, e.Name+"\t"+e.Code+"\t"+strconv.Itoa(e.Weight))
	}
	return writeLines(path, lines)
}

// WriteHints writes one "name<TAB>hint" line per assembly.
func WriteHints(path string, hints []dictionary.Hint) error {
	lines := make([]string, 0, len(hints))
	for _, h := range hints {
		lines = append(lines, h.Name+"\t"+h.Text)
	}
	return writeLines(path, lines)
}

// WriteAssociations writes one "word<TAB>leader<TAB>weight" line per entry.
func WriteAssociations(path string, assoc []dictionary.Association) error {
	lines := make([]string, 0, len(assoc))
	for _, a := range assoc {
		lines = append(lines, a.Word+"\t"+a.Leader+"\t"+strconv.Itoa(a.Weight))
	}
	return writeLines(path, lines)
}

func writeLines(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
