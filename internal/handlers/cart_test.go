package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tienda/internal/cart"
	"tienda/internal/catalog"
	"tienda/internal/config"
	"tienda/internal/models"
)

// fakeCatalog is an in-memory cart.Catalog for handler tests.
type fakeCatalog struct {
	mu       sync.Mutex
	products map[uint]*models.Product
}

func newFakeCatalog(products ...*models.Product) *fakeCatalog {
	f := &fakeCatalog{products: map[uint]*models.Product{}}
	for _, p := range products {
		f.products[p.ID] = p
	}
	return f
}

func (f *fakeCatalog) GetProduct(id uint) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, &catalog.NotFoundError{Entity: "product", ID: strconv.FormatUint(uint64(id), 10)}
	}
	cp := *p
	return &cp, nil
}

func (f *fakeCatalog) DecrementStock(id uint, qty int) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, &catalog.NotFoundError{Entity: "product", ID: strconv.FormatUint(uint64(id), 10)}
	}
	if p.Stock < qty {
		return nil, &catalog.InsufficientStockError{ID: p.ID, Title: p.Title, Requested: qty, Available: p.Stock}
	}
	p.Stock -= qty
	cp := *p
	return &cp, nil
}

func (f *fakeCatalog) RestoreStock(id uint, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.products[id]; ok {
		p.Stock += qty
	}
	return nil
}

func (f *fakeCatalog) RemoveIfOutOfStock(id uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.products[id]; ok && p.Stock == 0 {
		delete(f.products, id)
		return true, nil
	}
	return false, nil
}

func testProduct(id uint, title string, priceCents, stock int) *models.Product {
	p := &models.Product{Title: title, PriceCents: priceCents, Stock: stock}
	p.ID = id
	return p
}

func newCartRouter(cat cart.Catalog) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	engine := cart.NewEngine(cat, config.KeepOutOfStock, logger)
	h := NewCartHandler(cat, engine, logger)

	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test_secret"))))
	r.POST("/cart/add", h.Add)
	r.POST("/cart/update", h.Update)
	r.POST("/cart/remove", h.Remove)
	r.GET("/cart", h.View)
	r.POST("/checkout", h.Checkout)
	return r
}

// client keeps the session cookie across requests, the way a browser
// would.
type client struct {
	t       *testing.T
	r       http.Handler
	cookies []string
}

func (cl *client) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	cl.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, ck := range cl.cookies {
		req.Header.Add("Cookie", ck)
	}
	w := httptest.NewRecorder()
	cl.r.ServeHTTP(w, req)

	if set := w.Result().Cookies(); len(set) > 0 {
		cl.cookies = cl.cookies[:0]
		for _, ck := range set {
			cl.cookies = append(cl.cookies, ck.Name+"="+ck.Value)
		}
	}
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) cartView {
	t.Helper()
	var view cartView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode cart view: %v (body %s)", err, w.Body.String())
	}
	return view
}

func TestCartAddViewCheckoutFlow(t *testing.T) {
	cat := newFakeCatalog(testProduct(1, "mug", 150, 5))
	cl := &client{t: t, r: newCartRouter(cat)}

	w := cl.do(http.MethodPost, "/cart/add", url.Values{"product_id": {"1"}, "qty": {"2"}})
	if w.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if view := decodeView(t, w); view.Count != 2 || view.TotalCents != 300 {
		t.Fatalf("add: unexpected view %+v", view)
	}

	w = cl.do(http.MethodGet, "/cart", nil)
	view := decodeView(t, w)
	if len(view.Items) != 1 || view.Items[0].Quantity != 2 || view.TotalCents != 300 {
		t.Fatalf("view: unexpected view %+v", view)
	}

	w = cl.do(http.MethodPost, "/checkout", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("checkout: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	var res struct {
		TotalCents int `json:"total_cents"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode checkout: %v", err)
	}
	if res.TotalCents != 300 {
		t.Fatalf("checkout: expected total 300, got %d", res.TotalCents)
	}

	if p, _ := cat.GetProduct(1); p.Stock != 3 {
		t.Fatalf("expected stock 3 after checkout, got %d", p.Stock)
	}

	w = cl.do(http.MethodGet, "/cart", nil)
	if view := decodeView(t, w); view.Count != 0 {
		t.Fatalf("cart must be empty after checkout, got %+v", view)
	}
}

func TestCartAddUnknownProduct(t *testing.T) {
	cl := &client{t: t, r: newCartRouter(newFakeCatalog())}

	w := cl.do(http.MethodPost, "/cart/add", url.Values{"product_id": {"9"}})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestCartAddBeyondStockRejected(t *testing.T) {
	cat := newFakeCatalog(testProduct(1, "mug", 150, 2))
	cl := &client{t: t, r: newCartRouter(cat)}

	w := cl.do(http.MethodPost, "/cart/add", url.Values{"product_id": {"1"}, "qty": {"3"}})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	cl := &client{t: t, r: newCartRouter(newFakeCatalog())}

	w := cl.do(http.MethodPost, "/checkout", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestCheckoutInsufficientStockLeavesCart(t *testing.T) {
	cat := newFakeCatalog(testProduct(1, "mug", 150, 5))
	cl := &client{t: t, r: newCartRouter(cat)}

	cl.do(http.MethodPost, "/cart/add", url.Values{"product_id": {"1"}, "qty": {"4"}})

	// someone else buys most of the stock before checkout
	if _, err := cat.DecrementStock(1, 3); err != nil {
		t.Fatalf("setup decrement: %v", err)
	}

	w := cl.do(http.MethodPost, "/checkout", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d (%s)", w.Code, w.Body.String())
	}

	w = cl.do(http.MethodGet, "/cart", nil)
	if view := decodeView(t, w); view.Count != 4 {
		t.Fatalf("failed checkout must leave the cart, got %+v", view)
	}
	if p, _ := cat.GetProduct(1); p.Stock != 2 {
		t.Fatalf("failed checkout must not change stock, got %d", p.Stock)
	}
}

func TestCartUpdateZeroRemovesLine(t *testing.T) {
	cat := newFakeCatalog(testProduct(1, "mug", 150, 5))
	cl := &client{t: t, r: newCartRouter(cat)}

	cl.do(http.MethodPost, "/cart/add", url.Values{"product_id": {"1"}, "qty": {"2"}})
	w := cl.do(http.MethodPost, "/cart/update", url.Values{"product_id": {"1"}, "qty": {"0"}})
	if w.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", w.Code)
	}
	if view := decodeView(t, w); view.Count != 0 || len(view.Items) != 0 {
		t.Fatalf("expected empty cart after zero-quantity update, got %+v", view)
	}
}

func TestCartViewOmitsDeletedProduct(t *testing.T) {
	cat := newFakeCatalog(testProduct(1, "mug", 150, 5), testProduct(2, "pen", 50, 5))
	cl := &client{t: t, r: newCartRouter(cat)}

	cl.do(http.MethodPost, "/cart/add", url.Values{"product_id": {"1"}, "qty": {"1"}})
	cl.do(http.MethodPost, "/cart/add", url.Values{"product_id": {"2"}, "qty": {"1"}})

	cat.mu.Lock()
	delete(cat.products, 2)
	cat.mu.Unlock()

	w := cl.do(http.MethodGet, "/cart", nil)
	view := decodeView(t, w)
	if len(view.Items) != 1 || view.Items[0].ProductID != 1 {
		t.Fatalf("deleted product must drop from the view, got %+v", view)
	}
	// the stored mapping still carries the stale line
	if view.Count != 2 {
		t.Fatalf("stored mapping must keep the stale line, got count %d", view.Count)
	}
}
