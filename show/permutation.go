package show

import (
	"errors"
	"fmt"
	"slices"
	"sort"
)

// ErrInvalidPermutation is returned for a table entry that is not a
// rearrangement of the base ordering.
var ErrInvalidPermutation = errors.New("invalid permutation")

// DefaultBase is the base ordering of runway models.
var DefaultBase = []string{"model1", "model2", "model3", "model4"}

// DefaultPermutations maps the number keys to play orders over DefaultBase.
var DefaultPermutations = map[string][]int{
	"1": {0, 1, 2, 3},
	"2": {1, 0, 2, 3},
	"3": {2, 0, 1, 3},
	"4": {3, 0, 1, 2},
}

// PermutationTable maps input symbols to orderings of a base list of
// entry keys. Every ordering is a bijection over the base indices.
type PermutationTable struct {
	base  []string
	perms map[string][]int
}

// NewPermutationTable validates every permutation against base.
func NewPermutationTable(base []string, perms map[string][]int) (*PermutationTable, error) {
	if len(base) == 0 {
		return nil, fmt.Errorf("%w: empty base ordering", ErrInvalidPermutation)
	}
	keys := make(map[string]bool, len(base))
	for _, k := range base {
		if k == "" || keys[k] {
			return nil, fmt.Errorf("%w: base key %q is empty or repeated", ErrInvalidPermutation, k)
		}
		keys[k] = true
	}

	t := &PermutationTable{
		base:  slices.Clone(base),
		perms: make(map[string][]int, len(perms)),
	}
	for symbol, perm := range perms {
		if err := checkBijection(perm, len(base)); err != nil {
			return nil, fmt.Errorf("%w: symbol %q: %v", ErrInvalidPermutation, symbol, err)
		}
		t.perms[symbol] = slices.Clone(perm)
	}
	return t, nil
}

// DefaultPermutationTable returns the table for keys "1" to "4".
func DefaultPermutationTable() *PermutationTable {
	t, err := NewPermutationTable(DefaultBase, DefaultPermutations)
	if err != nil {
		panic(err)
	}
	return t
}

func checkBijection(perm []int, n int) error {
	if len(perm) != n {
		return fmt.Errorf("length %d, want %d", len(perm), n)
	}
	seen := make([]bool, n)
	for _, idx := range perm {
		if idx < 0 || idx >= n {
			return fmt.Errorf("index %d out of range", idx)
		}
		if seen[idx] {
			return fmt.Errorf("index %d repeated", idx)
		}
		seen[idx] = true
	}
	return nil
}

// Base returns the base ordering.
func (t *PermutationTable) Base() []string { return slices.Clone(t.base) }

// Symbols returns the bound input symbols in sorted order.
func (t *PermutationTable) Symbols() []string {
	out := make([]string, 0, len(t.perms))
	for s := range t.perms {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Lookup resolves symbol to an ordering of base keys.
func (t *PermutationTable) Lookup(symbol string) ([]string, bool) {
	perm, ok := t.perms[symbol]
	if !ok {
		return nil, false
	}
	keys := make([]string, len(perm))
	for i, idx := range perm {
		keys[i] = t.base[idx]
	}
	return keys, true
}
