package dictionary

import "unicode/utf8"

// DefaultAssociationLimit caps the words kept per leading character.
const DefaultAssociationLimit = 5

// RankOptions controls RankAssociations.
type RankOptions struct {
	// Limit is the maximum number of words per bucket. Zero means
	// DefaultAssociationLimit.
	Limit int
	// SortByFrequency orders words by descending count before bucketing.
	// Without it the source table order is trusted to be frequency order.
	SortByFrequency bool
}

// RankAssociations buckets every multi-character word under its first
// character and weights the first Limit words of each bucket Limit..1
// (or len..1 for shorter buckets).
//
// Buckets of the given characters come first in that order, followed by
// the buckets of other leading characters in first-seen order.
func RankAssociations(freq *Frequency, characters []string, opts RankOptions) []Association {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultAssociationLimit
	}

	words := freq.Words()
	if opts.SortByFrequency {
		words = freq.WordsByCount()
	}

	buckets := make(map[string][]string)
	var order []string
	for _, word := range words {
		if utf8.RuneCountInString(word) < 2 {
			continue
		}
		leader, _ := utf8.DecodeRuneInString(word)
		key := string(leader)
		if _, ok := buckets[key]; !ok {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], word)
	}

	var out []Association
	emitted := make(map[string]bool, len(order))
	emit := func(leader string) {
		if emitted[leader] {
			return
		}
		emitted[leader] = true
		bucket := buckets[leader]
		n := min(len(bucket), limit)
		for i := 0; i < n; i++ {
			out = append(out, Association{Word: bucket[i], Leader: leader, Weight: n - i})
		}
	}

	for _, c := range characters {
		emit(c)
	}
	for _, leader := range order {
		emit(leader)
	}
	return out
}
