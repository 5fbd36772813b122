package abstract

import (
	"slices"
	"strconv"

	"codeabs/internal/category"
)

// Key builds the table key of one physical line of a multi-line occurrence.
func Key(text string, id int) string {
	return text + "$$" + strconv.Itoa(id)
}

// Entry is one key and the symbol it maps to.
type Entry struct {
	Key    string
	Symbol string
}

type bucket struct {
	keys    []string          // порядок первого появления
	symbols map[string]string // key -> symbol
}

func (b *bucket) put(key, symbol string) {
	if _, ok := b.symbols[key]; ok {
		return
	}
	b.keys = append(b.keys, key)
	b.symbols[key] = symbol
}

// Table maps canonical keys to placeholder symbols, one namespace per category.
// A new key in a category gets CAT_<n>, n being the number of keys the category
// already holds. Entries are never removed.
type Table struct {
	buckets map[category.Kind]*bucket
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{buckets: make(map[category.Kind]*bucket)}
}

func (t *Table) bucket(cat category.Kind) *bucket {
	b, ok := t.buckets[cat]
	if !ok {
		b = &bucket{symbols: make(map[string]string)}
		t.buckets[cat] = b
	}
	return b
}

// Intern returns the symbol for key, allocating the next one on first sight.
func (t *Table) Intern(cat category.Kind, key string) string {
	b := t.bucket(cat)
	if sym, ok := b.symbols[key]; ok {
		return sym
	}
	sym := cat.Symbol(len(b.keys))
	b.put(key, sym)
	return sym
}

// InternGroup gives every key of one multi-line occurrence the same symbol.
// The symbol is allocated once, before any key of the group is added, so a
// group of k new keys advances the category's counter by k.
func (t *Table) InternGroup(cat category.Kind, keys []string) string {
	b := t.bucket(cat)
	sym := cat.Symbol(len(b.keys))
	for _, key := range keys {
		b.put(key, sym)
	}
	return sym
}

// Put stores a key with a known symbol. Decoders use it to rebuild a table as written.
func (t *Table) Put(cat category.Kind, key, symbol string) {
	t.bucket(cat).put(key, symbol)
}

// Has reports whether key is already recorded under cat.
func (t *Table) Has(cat category.Kind, key string) bool {
	if t == nil {
		return false
	}
	b, ok := t.buckets[cat]
	if !ok {
		return false
	}
	_, ok = b.symbols[key]
	return ok
}

// Lookup returns the symbol for key under cat.
func (t *Table) Lookup(cat category.Kind, key string) (string, bool) {
	if t == nil {
		return "", false
	}
	b, ok := t.buckets[cat]
	if !ok {
		return "", false
	}
	sym, ok := b.symbols[key]
	return sym, ok
}

// Len returns the number of keys recorded under cat.
func (t *Table) Len(cat category.Kind) int {
	if t == nil {
		return 0
	}
	if b, ok := t.buckets[cat]; ok {
		return len(b.keys)
	}
	return 0
}

// Entries returns the keys of cat in first-seen order.
func (t *Table) Entries(cat category.Kind) []Entry {
	if t == nil {
		return nil
	}
	b, ok := t.buckets[cat]
	if !ok {
		return nil
	}
	out := make([]Entry, 0, len(b.keys))
	for _, k := range b.keys {
		out = append(out, Entry{Key: k, Symbol: b.symbols[k]})
	}
	return out
}

// Categories returns the categories holding at least one key, in category order.
func (t *Table) Categories() []category.Kind {
	if t == nil {
		return nil
	}
	out := make([]category.Kind, 0, len(t.buckets))
	for cat, b := range t.buckets {
		if len(b.keys) > 0 {
			out = append(out, cat)
		}
	}
	slices.Sort(out)
	return out
}
