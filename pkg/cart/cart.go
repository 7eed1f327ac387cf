// Package cart implements the client-held shopping cart. The cart lives
// entirely on the consumer's side: it caches product names and prices for
// display, but the server re-derives every billing total from the catalog,
// so nothing in here is trusted for money.
package cart

import (
	"encoding/json"
	"os"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Item is a cart line. Name and Price are display caches copied from the
// catalog at add time; checkout ignores them.
type Item struct {
	ProductID int64           `json:"productId"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// Cart is an ordered list of items keyed by product. It is not safe for
// concurrent use.
type Cart struct {
	items []Item
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add upserts an item by its ProductID. Adding a product already in the
// cart overwrites its quantity rather than incrementing it; the item keeps
// its original position.
func (c *Cart) Add(item Item) {
	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			c.items[i] = item
			return
		}
	}
	c.items = append(c.items, item)
}

// RemoveAt deletes the item at the given position. Out-of-range indexes are
// a no-op.
func (c *Cart) RemoveAt(index int) {
	if index < 0 || index >= len(c.items) {
		return
	}
	c.items = append(c.items[:index], c.items[index+1:]...)
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of cart lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// DisplayTotal sums the cached price × quantity of every line. It is a
// display figure only; the server computes the authoritative total at
// checkout.
func (c *Cart) DisplayTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Clear empties the cart. Call it only after a fully successful checkout
// response.
func (c *Cart) Clear() {
	c.items = nil
}

// Save writes the cart to path as JSON.
func (c *Cart) Save(path string) error {
	data, err := json.Marshal(c.items)
	if err != nil {
		return errors.Wrap(err, "marshal cart")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(err, "write cart file")
	}
	return nil
}

// Load reads a previously saved cart from path. A missing file yields an
// empty cart, matching a fresh session.
func Load(path string) (*Cart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, errors.Wrap(err, "read cart file")
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrap(err, "unmarshal cart")
	}
	return &Cart{items: items}, nil
}
