package quote

import "github.com/rts-ads/quote-engine/catalog"

// Cart is the ordered collection of committed lines. Insertion order is
// display order and the basis for RemoveAt.
type Cart struct {
	items []LineItem
}

func NewCart() *Cart {
	return &Cart{}
}

// Append adds item at the end. Items reaching the cart have already passed
// the Validator, so nothing is rejected here.
func (c *Cart) Append(item LineItem) {
	c.items = append(c.items, item)
}

// RemoveAt removes the item at index i and reports whether anything was
// removed. An out-of-range index is a no-op.
func (c *Cart) RemoveAt(i int) (LineItem, bool) {
	if i < 0 || i >= len(c.items) {
		return LineItem{}, false
	}
	removed := c.items[i]
	c.items = append(c.items[:i], c.items[i+1:]...)
	return removed, true
}

func (c *Cart) Clear() {
	c.items = nil
}

func (c *Cart) Len() int { return len(c.items) }

// Items returns a copy of the cart contents.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// AggregateQuantityByType sums qty over the items of type t.
func (c *Cart) AggregateQuantityByType(t catalog.Type) int {
	total := 0
	for _, it := range c.items {
		if it.Type == t {
			total += it.Qty
		}
	}
	return total
}
