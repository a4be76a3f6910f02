// Package metadata implements the case-insensitive metadata bag
// entities carry, and the Source capability that populates it (spec
// §4.5).
package metadata

import (
	"strings"

	"github.com/SierraSoftworks/ghbackup/filter"
)

// Bag is a case-insensitive, insertion-order-preserving string->Value
// map. The canonical key (as first inserted) is kept for display;
// lookups are case-insensitive.
type Bag struct {
	order []string
	lower map[string]filter.Value
	exact map[string]string // lower -> canonical
}

// NewBag constructs an empty Bag.
func NewBag() *Bag {
	return &Bag{
		lower: make(map[string]filter.Value),
		exact: make(map[string]string),
	}
}

// Set stores value under key, case-insensitively.
func (b *Bag) Set(key string, value filter.Value) {
	lk := strings.ToLower(key)
	if _, exists := b.lower[lk]; !exists {
		b.order = append(b.order, lk)
		b.exact[lk] = key
	}
	b.lower[lk] = value
}

// Get implements filter.Filterable: missing keys yield filter.Null.
func (b *Bag) Get(key string) filter.Value {
	v, ok := b.lower[strings.ToLower(key)]
	if !ok {
		return filter.Null
	}
	return v
}

// Keys returns the canonical keys in insertion order.
func (b *Bag) Keys() []string {
	keys := make([]string, len(b.order))
	for i, lk := range b.order {
		keys[i] = b.exact[lk]
	}
	return keys
}

// Source is the capability "given a mutable bag, inject my keys",
// implemented by each API object kind (Repo, Release, ReleaseAsset,
// Gist).
type Source interface {
	InjectMetadata(bag *Bag)
}

// Apply runs every source against bag, in order, later sources
// overwriting earlier ones on key collision.
func Apply(bag *Bag, sources ...Source) {
	for _, s := range sources {
		s.InjectMetadata(bag)
	}
}
