package show

import (
	"errors"
	"fmt"
)

// ErrMissingEntry is returned when an ordering names a key that was never
// loaded.
var ErrMissingEntry = errors.New("missing entry")

// Roster holds every loaded entry by key.
type Roster map[string]*Entry

// Resolve maps keys to entries in order.
func (r Roster) Resolve(keys []string) ([]*Entry, error) {
	out := make([]*Entry, len(keys))
	for i, k := range keys {
		e, ok := r[k]
		if !ok || e == nil {
			return nil, fmt.Errorf("%w: %q", ErrMissingEntry, k)
		}
		out[i] = e
	}
	return out, nil
}
