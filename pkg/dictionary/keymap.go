package dictionary

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// SentinelPrefix marks structural and punctuation roots that are not CJK
// characters themselves, e.g. "<横>".
const SentinelPrefix = "<"

// RootRow is one row of the root table.
type RootRow struct {
	Root  string
	Key   string
	Alias string
}

// Binding is the keystroke and display alias of a root or sub-root.
type Binding struct {
	Key   string
	Alias string
}

// KeyMap indexes roots and sub-roots ("root.1", "root.2", ...) by exact token.
type KeyMap struct {
	index    map[string]Binding
	rejected int
}

// NewKeyMap validates rows and builds the index. A key string of N
// characters binds the root to the first and root.i to the i-th. Invalid
// roots are logged and skipped.
func NewKeyMap(rows []RootRow, log *slog.Logger) *KeyMap {
	km := &KeyMap{index: make(map[string]Binding, len(rows))}
	for _, r := range rows {
		if !ValidRoot(r.Root) {
			log.Warn("invalid root", slog.String("root", r.Root), slog.String("key", r.Key))
			km.rejected++
			continue
		}

		alias := r.Alias
		if alias == "" {
			alias = r.Root
		}
		for i, key := range []rune(r.Key) {
			km.index[SubRoot(r.Root, i)] = Binding{Key: string(key), Alias: alias}
		}
	}
	return km
}

// ValidRoot reports whether root is a sentinel token or starts with a CJK
// Unified Ideograph or Extension A character.
func ValidRoot(root string) bool {
	if strings.HasPrefix(root, SentinelPrefix) {
		return true
	}
	r, size := utf8.DecodeRuneInString(root)
	return size > 0 && isCJK(r)
}

func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || (r >= 0x3400 && r <= 0x4DBF)
}

// SubRoot names the i-th keystroke of root. The first keystroke is the
// root itself.
func SubRoot(root string, i int) string {
	if i == 0 {
		return root
	}
	return root + "." + strconv.Itoa(i)
}

// Lookup returns the binding of token.
func (km *KeyMap) Lookup(token string) (Binding, bool) {
	b, ok := km.index[token]
	return b, ok
}

// Key returns the keystroke bound to token.
func (km *KeyMap) Key(token string) (string, bool) {
	b, ok := km.index[token]
	return b.Key, ok
}

// Alias returns the display alias bound to token.
func (km *KeyMap) Alias(token string) (string, bool) {
	b, ok := km.index[token]
	return b.Alias, ok
}

// Len returns the number of bound tokens, sub-roots included.
func (km *KeyMap) Len() int {
	return len(km.index)
}

// Rejected returns how many rows failed validation.
func (km *KeyMap) Rejected() int {
	return km.rejected
}
