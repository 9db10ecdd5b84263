package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tienda/internal/cart"
	"tienda/internal/catalog"
)

type CartHandler struct {
	cat    cart.Catalog
	engine *cart.Engine
	log    *logrus.Logger
}

func NewCartHandler(cat cart.Catalog, engine *cart.Engine, logger *logrus.Logger) *CartHandler {
	return &CartHandler{cat: cat, engine: engine, log: logger}
}

type cartView struct {
	Items      []cart.Line `json:"items"`
	TotalCents int         `json:"total_cents"`
	Count      int         `json:"count"`
}

func (h *CartHandler) view(c *gin.Context, crt cart.Cart) (cartView, error) {
	items, total, err := h.engine.View(crt)
	if err != nil {
		return cartView{}, err
	}
	return cartView{Items: items, TotalCents: total, Count: crt.Count()}, nil
}

func formQty(c *gin.Context, fallback int) int {
	s := strings.TrimSpace(c.PostForm("qty"))
	if s == "" {
		return fallback
	}
	qty, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return qty
}

// Add accumulates a quantity onto the session cart. The stock check
// here is advisory: it catches the obvious case at add time but the
// binding check happens at checkout.
func (h *CartHandler) Add(c *gin.Context) {
	log := h.log.WithField("handler", "CartAdd")

	idStr := strings.TrimSpace(c.PostForm("product_id"))
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		writeError(c, log, &catalog.ValidationError{Field: "product_id", Reason: "must be a positive integer"})
		return
	}
	qty := formQty(c, 1)
	if qty <= 0 {
		qty = 1
	}

	p, err := h.cat.GetProduct(uint(id))
	if err != nil {
		writeError(c, log, err)
		return
	}

	crt := getCart(c)
	if crt[idStr]+qty > p.Stock {
		writeError(c, log, &catalog.InsufficientStockError{
			ID: p.ID, Title: p.Title, Requested: crt[idStr] + qty, Available: p.Stock,
		})
		return
	}
	crt.Add(idStr, qty)
	if err := saveCart(c, crt); err != nil {
		writeError(c, log, err)
		return
	}

	view, err := h.view(c, crt)
	if err != nil {
		writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Update sets a line's quantity outright; zero or negative removes it.
func (h *CartHandler) Update(c *gin.Context) {
	log := h.log.WithField("handler", "CartUpdate")

	idStr := strings.TrimSpace(c.PostForm("product_id"))
	if idStr == "" {
		writeError(c, log, &catalog.ValidationError{Field: "product_id", Reason: "cannot be empty"})
		return
	}
	crt := getCart(c)
	crt.SetLine(idStr, formQty(c, 0))
	if err := saveCart(c, crt); err != nil {
		writeError(c, log, err)
		return
	}

	view, err := h.view(c, crt)
	if err != nil {
		writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) Remove(c *gin.Context) {
	log := h.log.WithField("handler", "CartRemove")

	idStr := strings.TrimSpace(c.PostForm("product_id"))
	if idStr == "" {
		writeError(c, log, &catalog.ValidationError{Field: "product_id", Reason: "cannot be empty"})
		return
	}
	crt := getCart(c)
	crt.Remove(idStr)
	if err := saveCart(c, crt); err != nil {
		writeError(c, log, err)
		return
	}

	view, err := h.view(c, crt)
	if err != nil {
		writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CartHandler) View(c *gin.Context) {
	view, err := h.view(c, getCart(c))
	if err != nil {
		writeError(c, h.log.WithField("handler", "CartView"), err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Checkout runs the validate-then-commit flow. On success the session
// cart is cleared; on any failure it is left exactly as it was.
func (h *CartHandler) Checkout(c *gin.Context) {
	log := h.log.WithField("handler", "Checkout")

	crt := getCart(c)
	total, err := h.engine.Checkout(crt)
	if err != nil {
		writeError(c, log, err)
		return
	}
	if err := saveCart(c, crt); err != nil {
		log.Warnf("save cleared cart: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"total_cents": total})
}
