package show

import (
	"errors"
	"fmt"
)

// ErrUnboundSymbol is returned for a symbol with no ordering.
var ErrUnboundSymbol = errors.New("symbol not bound")

// Dispatcher turns input symbols into queue triggers.
type Dispatcher struct {
	orders map[string][]*Entry
	queue  *Queue
	cue    Cue
}

// NewDispatcher resolves every ordering of table through roster up front,
// so a dispatch can never reference a model that was not loaded.
func NewDispatcher(table *PermutationTable, roster Roster, queue *Queue, cue Cue) (*Dispatcher, error) {
	entries, err := roster.Resolve(table.Base())
	if err != nil {
		return nil, err
	}
	queue.Register(entries...)

	d := &Dispatcher{
		orders: make(map[string][]*Entry),
		queue:  queue,
		cue:    cue,
	}
	for _, symbol := range table.Symbols() {
		keys, _ := table.Lookup(symbol)
		if d.orders[symbol], err = roster.Resolve(keys); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Dispatch triggers the ordering bound to symbol. It returns
// ErrUnboundSymbol for symbols with no ordering and the queue's error when
// the trigger is refused.
func (d *Dispatcher) Dispatch(symbol string) error {
	order, ok := d.orders[symbol]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnboundSymbol, symbol)
	}
	return d.queue.Trigger(order, d.cue)
}
