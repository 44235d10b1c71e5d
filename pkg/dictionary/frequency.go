package dictionary

import "sort"

// FrequencyRow is a corpus count for a word (or a single character).
type FrequencyRow struct {
	Word  string
	Count int
}

// Frequency holds word counts in source order and the character counts
// derived from them.
type Frequency struct {
	words  []string
	counts map[string]int
	single map[string]int
}

// NewFrequency indexes rows. A character's count is the sum, over every word
// containing it, of the word's count, once per occurrence. A repeated word
// replaces the earlier count but keeps its position.
func NewFrequency(rows []FrequencyRow) *Frequency {
	f := &Frequency{
		counts: make(map[string]int, len(rows)),
		single: make(map[string]int),
	}
	for _, r := range rows {
		if _, ok := f.counts[r.Word]; !ok {
			f.words = append(f.words, r.Word)
		}
		f.counts[r.Word] = r.Count
	}
	for _, w := range f.words {
		count := f.counts[w]
		for _, c := range w {
			f.single[string(c)] += count
		}
	}
	return f
}

// Word returns the corpus count of word.
func (f *Frequency) Word(word string) (int, bool) {
	c, ok := f.counts[word]
	return c, ok
}

// Single returns the redistributed count of a single character.
func (f *Frequency) Single(char string) (int, bool) {
	c, ok := f.single[char]
	return c, ok
}

// Words returns the words in source order.
func (f *Frequency) Words() []string {
	return f.words
}

// WordsByCount returns the words ordered by descending count; ties keep
// source order.
func (f *Frequency) WordsByCount() []string {
	out := make([]string, len(f.words))
	copy(out, f.words)
	sort.SliceStable(out, func(i, j int) bool {
		return f.counts[out[i]] > f.counts[out[j]]
	})
	return out
}

// Len returns the number of distinct words.
func (f *Frequency) Len() int {
	return len(f.words)
}
