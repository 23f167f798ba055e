// Package cart holds the in-memory shopping cart for one browsing session
// of one storefront. A cart is shared by every consumer of that session
// (product grid, drawer, checkout form), so mutations go through a single
// instance and subscribers are notified on every change.
package cart

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/shopcanvas/storefront/internal/money"
)

// Item is one product line in a cart. Quantity is always >= 1; Price is the
// unit resale price captured when the item was added.
type Item struct {
	ProductID uuid.UUID   `json:"product_id"`
	Name      string      `json:"name"`
	Price     money.Money `json:"price"`
	Quantity  int         `json:"quantity"`
	ImageURL  string      `json:"image_url"`
}

// Snapshot is an immutable view of a cart handed to subscribers and
// HTTP responses.
type Snapshot struct {
	Items []Item      `json:"items"`
	Total money.Money `json:"total"`
	Count int         `json:"item_count"`
}

// Cart is an ordered item sequence (insertion order is display order) with
// merge-by-product semantics. Safe for concurrent use; requests of the same
// session may interleave.
type Cart struct {
	mu       sync.Mutex
	currency currency.Unit
	items    []Item
	subs     map[int]func(Snapshot)
	nextSub  int
}

func New(cur currency.Unit) *Cart {
	return &Cart{
		currency: cur,
		subs:     make(map[int]func(Snapshot)),
	}
}

// AddItem merges by product: an existing line's quantity grows by the
// incoming quantity, otherwise the item is appended. Quantities below 1
// default to 1. Never fails.
func (c *Cart) AddItem(item Item) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	c.mu.Lock()
	merged := false
	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			c.items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		c.items = append(c.items, item)
	}
	snap, subs := c.snapshotLocked()
	c.mu.Unlock()

	notify(snap, subs)
}

// RemoveItem deletes the line for productID. Absent ids are a no-op.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	c.mu.Lock()
	changed := false
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			changed = true
			break
		}
	}
	if !changed {
		c.mu.Unlock()
		return
	}
	snap, subs := c.snapshotLocked()
	c.mu.Unlock()

	notify(snap, subs)
}

// UpdateQuantity sets the line's quantity when quantity >= 1. Decrements
// below 1 are rejected: the quantity floors at 1 and the item stays in the
// cart. Absent ids are a no-op.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) {
	if quantity < 1 {
		return
	}

	c.mu.Lock()
	changed := false
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = quantity
			changed = true
			break
		}
	}
	if !changed {
		c.mu.Unlock()
		return
	}
	snap, subs := c.snapshotLocked()
	c.mu.Unlock()

	notify(snap, subs)
}

// Clear empties the cart unconditionally. Called after a successful checkout.
func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	snap, subs := c.snapshotLocked()
	c.mu.Unlock()

	notify(snap, subs)
}

// Items returns a copy of the current lines in display order.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyItems(c.items)
}

// Total is the sum of price times quantity over all lines, zero for an
// empty cart.
func (c *Cart) Total() money.Money {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalLocked()
}

// ItemCount is the sum of quantities, used for the cart badge.
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.countLocked()
}

func (c *Cart) Currency() currency.Unit { return c.currency }

// Snapshot returns the current view of the cart.
func (c *Cart) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, _ := c.snapshotLocked()
	return snap
}

// Subscribe registers fn to receive a snapshot after every mutation. The
// returned func unregisters it.
func (c *Cart) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Cart) totalLocked() money.Money {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Price.Amount.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return money.New(total, c.currency)
}

func (c *Cart) countLocked() int {
	count := 0
	for _, it := range c.items {
		count += it.Quantity
	}
	return count
}

func (c *Cart) snapshotLocked() (Snapshot, []func(Snapshot)) {
	snap := Snapshot{
		Items: copyItems(c.items),
		Total: c.totalLocked(),
		Count: c.countLocked(),
	}
	subs := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	return snap, subs
}

// Subscribers run outside the cart lock so they may call back into the cart.
func notify(snap Snapshot, subs []func(Snapshot)) {
	for _, fn := range subs {
		fn(snap)
	}
}

func copyItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
