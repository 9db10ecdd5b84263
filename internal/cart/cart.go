package cart

// Cart is the per-session mapping from product id (a decimal string,
// the form it travels in) to requested quantity. It is owned by exactly
// one session and is handed to the engine explicitly on every call.
type Cart map[string]int

func New() Cart { return Cart{} }

// SetLine sets the requested quantity for a product. Zero or a negative
// quantity removes the line.
func (c Cart) SetLine(productID string, qty int) {
	if qty <= 0 {
		delete(c, productID)
		return
	}
	c[productID] = qty
}

// Add accumulates qty onto an existing line, the way the add-to-cart
// button behaves. Quantities below one count as one.
func (c Cart) Add(productID string, qty int) {
	if qty <= 0 {
		qty = 1
	}
	c[productID] += qty
}

func (c Cart) Remove(productID string) { delete(c, productID) }

func (c Cart) Empty() bool { return len(c) == 0 }

// Count is the number of units across all lines.
func (c Cart) Count() int {
	n := 0
	for _, q := range c {
		n += q
	}
	return n
}

func (c Cart) Clear() {
	for k := range c {
		delete(c, k)
	}
}
