package order

import (
	"fmt"
	"sync"
)

// Book owns the four order collections the bot tracks: open and closed
// orders, partitioned by side. Collections keep insertion order. Every
// order ID appears in at most one collection at any instant; mutation
// goes through a single mutex so a record can never be observed in zero
// or two collections.
type Book struct {
	mu         sync.RWMutex
	openBids   []Order
	openAsks   []Order
	closedBids []Order
	closedAsks []Order

	// ids guards cross-collection uniqueness. A duplicate insert is a
	// programming-contract failure, not venue behavior, so it panics.
	ids map[string]struct{}
}

func NewBook() *Book {
	return &Book{ids: make(map[string]struct{})}
}

// AddOpen files a newly placed order into the open collection for its side.
func (b *Book) AddOpen(o Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.track(o.ID)
	if o.Side == Buy {
		b.openBids = append(b.openBids, o)
	} else {
		b.openAsks = append(b.openAsks, o)
	}
}

// AddClosed files an order whose placement ack already carried a
// non-resting status.
func (b *Book) AddClosed(o Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.track(o.ID)
	if o.Side == Buy {
		b.closedBids = append(b.closedBids, o)
	} else {
		b.closedAsks = append(b.closedAsks, o)
	}
}

func (b *Book) track(id string) {
	if id == "" {
		panic("order: empty order ID")
	}
	if _, dup := b.ids[id]; dup {
		panic(fmt.Sprintf("order: duplicate order ID %s across book collections", id))
	}
	b.ids[id] = struct{}{}
}

// OpenBids returns a copy of the open buy orders in insertion order.
func (b *Book) OpenBids() []Order { return b.copyOf(&b.openBids) }

// OpenAsks returns a copy of the open sell orders in insertion order.
func (b *Book) OpenAsks() []Order { return b.copyOf(&b.openAsks) }

// ClosedBids returns a copy of the closed buy orders.
func (b *Book) ClosedBids() []Order { return b.copyOf(&b.closedBids) }

// ClosedAsks returns a copy of the closed sell orders.
func (b *Book) ClosedAsks() []Order { return b.copyOf(&b.closedAsks) }

func (b *Book) copyOf(src *[]Order) []Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Order, len(*src))
	copy(out, *src)
	return out
}

// OpenIDs snapshots the IDs of one side's open orders. Reconciliation
// iterates this snapshot instead of the live slice so migrations during
// the pass cannot skip entries.
func (b *Book) OpenIDs(side Side) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	src := b.openBids
	if side == Sell {
		src = b.openAsks
	}
	ids := make([]string, len(src))
	for i, o := range src {
		ids[i] = o.ID
	}
	return ids
}

// OpenCount returns the total number of open orders on both sides.
func (b *Book) OpenCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.openBids) + len(b.openAsks)
}

// ReplaceOpen overwrites the open record matching upd.ID with the fresh
// venue copy (price, quantity and status may have moved, e.g. a partial
// fill). First match wins; reports whether a record was replaced.
func (b *Book) ReplaceOpen(upd Order) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	open := &b.openBids
	if upd.Side == Sell {
		open = &b.openAsks
	}
	for i := range *open {
		if (*open)[i].ID == upd.ID {
			(*open)[i] = upd
			return true
		}
	}
	return false
}

// MoveToClosed atomically removes upd.ID from its side's open collection
// and appends the fresh record to the matching closed collection. Unknown
// IDs are a no-op: reconciliation may race with an already-migrated order.
func (b *Book) MoveToClosed(upd Order) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	open, closed := &b.openBids, &b.closedBids
	if upd.Side == Sell {
		open, closed = &b.openAsks, &b.closedAsks
	}
	for i := range *open {
		if (*open)[i].ID == upd.ID {
			*open = append((*open)[:i], (*open)[i+1:]...)
			*closed = append(*closed, upd)
			return true
		}
	}
	return false
}
