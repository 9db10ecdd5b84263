package cart

import (
	"errors"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"

	"tienda/internal/catalog"
	"tienda/internal/config"
	"tienda/internal/models"
)

// ErrEmptyCart is returned by Checkout when there is nothing to buy.
var ErrEmptyCart = errors.New("cart is empty")

// Catalog is the slice of the catalog store the engine needs.
type Catalog interface {
	GetProduct(id uint) (*models.Product, error)
	DecrementStock(id uint, qty int) (*models.Product, error)
	RestoreStock(id uint, qty int) error
	RemoveIfOutOfStock(id uint) (bool, error)
}

// Line is one cart entry resolved against the catalog.
type Line struct {
	ProductID      uint   `json:"product_id"`
	Title          string `json:"title"`
	UnitPriceCents int    `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
	SubtotalCents  int    `json:"subtotal_cents"`
	Stock          int    `json:"stock"`
}

// Engine turns a session cart into a committed inventory change or a
// rejection that leaves everything untouched.
type Engine struct {
	cat    Catalog
	policy config.ZeroStockPolicy
	log    *logrus.Logger
}

func NewEngine(cat Catalog, policy config.ZeroStockPolicy, logger *logrus.Logger) *Engine {
	return &Engine{cat: cat, policy: policy, log: logger}
}

type rawLine struct {
	key string
	id  uint
	qty int
}

// sortedLines resolves cart keys to numeric ids in a deterministic
// order. Keys that do not parse keep id 0 and fail product lookup.
func sortedLines(c Cart) []rawLine {
	lines := make([]rawLine, 0, len(c))
	for key, qty := range c {
		if qty <= 0 {
			continue
		}
		ln := rawLine{key: key, qty: qty}
		if id, err := strconv.ParseUint(key, 10, 64); err == nil {
			ln.id = uint(id)
		}
		lines = append(lines, ln)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].id != lines[j].id {
			return lines[i].id < lines[j].id
		}
		return lines[i].key < lines[j].key
	})
	return lines
}

// View resolves every line against the catalog for current title, price
// and stock. Lines referencing a product that no longer exists are
// silently omitted; the stored mapping is not touched. The returned
// total is in cents.
func (e *Engine) View(c Cart) ([]Line, int, error) {
	rows := make([]Line, 0, len(c))
	total := 0
	for _, ln := range sortedLines(c) {
		p, err := e.cat.GetProduct(ln.id)
		if err != nil {
			var nf *catalog.NotFoundError
			if errors.As(err, &nf) {
				continue
			}
			return nil, 0, err
		}
		sub := p.PriceCents * ln.qty
		rows = append(rows, Line{
			ProductID:      p.ID,
			Title:          p.Title,
			UnitPriceCents: p.PriceCents,
			Quantity:       ln.qty,
			SubtotalCents:  sub,
			Stock:          p.Stock,
		})
		total += sub
	}
	return rows, total, nil
}

// Checkout validates every line against current stock, then decrements
// stock for all of them and clears the cart. It is all-or-nothing: any
// failure leaves both the cart and every product's stock as they were.
// Returns the order total in cents.
func (e *Engine) Checkout(c Cart) (int, error) {
	if c.Empty() {
		return 0, ErrEmptyCart
	}

	// Validation pass: every line must be satisfiable against current
	// stock before anything is applied.
	lines := sortedLines(c)
	if len(lines) == 0 {
		return 0, ErrEmptyCart
	}
	total := 0
	for _, ln := range lines {
		p, err := e.cat.GetProduct(ln.id)
		if err != nil {
			return 0, err
		}
		if ln.qty > p.Stock {
			return 0, &catalog.InsufficientStockError{
				ID: p.ID, Title: p.Title, Requested: ln.qty, Available: p.Stock,
			}
		}
		total += p.PriceCents * ln.qty
	}

	// Commit pass. Each decrement is atomic; a concurrent sale between
	// the two passes surfaces here, in which case everything already
	// applied is restored.
	var soldOut []uint
	for i, ln := range lines {
		p, err := e.cat.DecrementStock(ln.id, ln.qty)
		if err != nil {
			for _, done := range lines[:i] {
				if rerr := e.cat.RestoreStock(done.id, done.qty); rerr != nil {
					e.log.Errorf("checkout: restore %d units of product %d: %v", done.qty, done.id, rerr)
				}
			}
			return 0, err
		}
		if p.Stock == 0 {
			soldOut = append(soldOut, p.ID)
		}
	}

	if e.policy == config.DeleteOutOfStock {
		for _, id := range soldOut {
			if _, err := e.cat.RemoveIfOutOfStock(id); err != nil {
				e.log.Errorf("checkout: prune sold-out product %d: %v", id, err)
			}
		}
	}

	c.Clear()
	e.log.Infof("checkout: committed %d lines, total %d cents", len(lines), total)
	return total, nil
}
