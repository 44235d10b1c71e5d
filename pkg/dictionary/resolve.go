package dictionary

import (
	"math"
	"strings"
)

// OverrideRule replaces the computed code of the characters it matches.
// The computed code is kept at weight 0.
//
// A PerWord rule emits its override once per table word through Phrases, at
// the word's corpus frequency; matching assemblies then contribute only the
// zero-weight computed code. Otherwise the override is emitted with every
// matching assembly at the assembly's weight.
type OverrideRule struct {
	Name    string
	Table   *Overrides
	PerWord bool
}

// Resolver turns assemblies into dictionary entries.
type Resolver struct {
	keys  *KeyMap
	freq  *Frequency
	rules []OverrideRule
}

// NewResolver builds a resolver. Rules are evaluated in the given order and
// the first match wins.
func NewResolver(keys *KeyMap, freq *Frequency, rules ...OverrideRule) *Resolver {
	return &Resolver{keys: keys, freq: freq, rules: rules}
}

// StandardRules returns the brevity rule followed by the specialty rule.
func StandardRules(brevity, specialty *Overrides) []OverrideRule {
	return []OverrideRule{
		{Name: "brevity", Table: brevity, PerWord: true},
		{Name: "specialty", Table: specialty},
	}
}

// Code maps each element to its key. Elements without a binding are used
// verbatim, which is how fallback letters and placeholders become keys.
func (r *Resolver) Code(elements []string) string {
	var b strings.Builder
	for _, e := range elements {
		if key, ok := r.keys.Key(e); ok {
			b.WriteString(key)
		} else {
			b.WriteString(e)
		}
	}
	return b.String()
}

// Weight scales the character frequency of name by importance/100.
func (r *Resolver) Weight(name string, importance int) int {
	single, _ := r.freq.Single(name)
	return int(math.Round(float64(single) * float64(importance) / DefaultImportance))
}

// Resolve emits one entry per assembly, or two when a per-assembly override
// rule matches the character. Rows of PerWord overrides come from Phrases.
func (r *Resolver) Resolve(assemblies []Assembly) []Entry {
	entries := make([]Entry, 0, len(assemblies))
	for _, a := range assemblies {
		entries = append(entries, r.resolve(a)...)
	}
	return entries
}

func (r *Resolver) resolve(a Assembly) []Entry {
	code := r.Code(a.Elements)
	weight := r.Weight(a.Name, a.Importance)

	for _, rule := range r.rules {
		override, ok := rule.Table.Code(a.Name)
		if !ok {
			continue
		}
		if rule.PerWord {
			return []Entry{{Name: a.Name, Code: code, Weight: 0}}
		}
		return []Entry{
			{Name: a.Name, Code: override, Weight: weight},
			{Name: a.Name, Code: code, Weight: 0},
		}
	}
	return []Entry{{Name: a.Name, Code: code, Weight: weight}}
}

// Phrases emits one entry per word of every PerWord rule, in rule then
// table order. The weight is the character frequency if the word is a
// single character, else its word frequency, else 0. A word already emitted
// by an earlier rule is skipped.
func (r *Resolver) Phrases() []Entry {
	var entries []Entry
	seen := make(map[string]bool)
	for _, rule := range r.rules {
		if !rule.PerWord {
			continue
		}
		for _, word := range rule.Table.Words() {
			if seen[word] {
				continue
			}
			seen[word] = true
			code, _ := rule.Table.Code(word)
			entries = append(entries, Entry{Name: word, Code: code, Weight: r.phraseWeight(word)})
		}
	}
	return entries
}

func (r *Resolver) phraseWeight(word string) int {
	if c, ok := r.freq.Single(word); ok {
		return c
	}
	if c, ok := r.freq.Word(word); ok {
		return c
	}
	return 0
}
