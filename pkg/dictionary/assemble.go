package dictionary

import (
	"strings"
	"unicode"
)

// ElementCount is the number of elements every assembly carries.
const ElementCount = 3

// accumulator folds assemblies that share a merge key.
type accumulator struct {
	list  []Assembly
	index map[string]int
}

func newAccumulator() *accumulator {
	return &accumulator{index: make(map[string]int)}
}

// upsert adds a to the list, or adds its importance to the assembly already
// stored under the same key. The stored elements never change. It reports
// whether a was inserted.
func (acc *accumulator) upsert(a Assembly) bool {
	key := mergeKey(a.Name, a.Elements)
	if i, ok := acc.index[key]; ok {
		acc.list[i].Importance += a.Importance
		return false
	}
	acc.index[key] = len(acc.list)
	acc.list = append(acc.list, a)
	return true
}

func mergeKey(name string, elements []string) string {
	return name + "," + strings.Join(elements, ",")
}

// Assemble merges readings with decompositions.
//
// Every reading of a decomposed character yields an assembly, padded to
// three elements with the upper-cased first letter of the reading and then
// its last-but-one letter (the final before the tone digit). Readings that
// pad to the same sequence are folded by summing importance. Characters
// without a reading get one assembly padded with Placeholder at
// DefaultImportance. Characters without a decomposition yield nothing.
func Assemble(readings []Reading, decomps *Decompositions) []Assembly {
	acc := newAccumulator()
	finished := make(map[string]bool)

	for _, r := range readings {
		source, ok := decomps.Get(r.Name)
		if !ok {
			continue
		}
		first, final := fallbackLetters(r.Pinyin)
		elements := pad(source, first, final)

		if acc.upsert(Assembly{Name: r.Name, Elements: elements, Importance: r.Importance}) {
			finished[r.Name] = true
		}
	}

	for _, name := range decomps.Names() {
		if finished[name] {
			continue
		}
		source, _ := decomps.Get(name)
		acc.list = append(acc.list, Assembly{
			Name:       name,
			Elements:   pad(source, Placeholder, Placeholder),
			Importance: DefaultImportance,
		})
	}

	return acc.list
}

// pad returns a copy of source extended to ElementCount with the fill
// tokens, in order. Sequences already long enough are copied unchanged.
func pad(source []string, fill ...string) []string {
	out := make([]string, len(source), max(len(source), ElementCount))
	copy(out, source)
	for _, f := range fill {
		if len(out) >= ElementCount {
			break
		}
		out = append(out, f)
	}
	return out
}

// fallbackLetters returns the upper-cased first and last-but-one runes of
// a reading such as "ma3". Missing runes become Placeholder.
func fallbackLetters(pinyin string) (first, final string) {
	runes := []rune(pinyin)
	first, final = Placeholder, Placeholder
	if len(runes) >= 1 {
		first = string(unicode.ToUpper(runes[0]))
	}
	if len(runes) >= 2 {
		final = string(unicode.ToUpper(runes[len(runes)-2]))
	}
	return first, final
}

// Characters returns the distinct assembly names in first-seen order.
func Characters(assemblies []Assembly) []string {
	seen := make(map[string]bool, len(assemblies))
	var out []string
	for _, a := range assemblies {
		if seen[a.Name] {
			continue
		}
		seen[a.Name] = true
		out = append(out, a.Name)
	}
	return out
}
