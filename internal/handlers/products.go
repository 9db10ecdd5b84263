package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tienda/internal/catalog"
)

type ProductHandler struct {
	store     *catalog.Store
	uploadDir string
	log       *logrus.Logger
}

func NewProductHandler(store *catalog.Store, uploadDir string, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{store: store, uploadDir: uploadDir, log: logger}
}

func paramID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, &catalog.ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return uint(id), nil
}

// parsePriceCents accepts "12", "12.5" or "12,50" and returns cents.
func parsePriceCents(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}
	if strings.Contains(s, ".") {
		var dollars, cents int
		if _, err := fmt.Sscanf(s, "%d.%d", &dollars, &cents); err != nil {
			return 0, err
		}
		if cents > 99 {
			cents = 99
		}
		return dollars*100 + cents, nil
	}
	var dollars int
	if _, err := fmt.Sscanf(s, "%d", &dollars); err != nil {
		return 0, err
	}
	return dollars * 100, nil
}

// productInputFromForm reads the multipart form a seller submits. The
// image, when present, is stored first so the input carries its path.
func (h *ProductHandler) productInputFromForm(c *gin.Context) (catalog.ProductInput, error) {
	var in catalog.ProductInput

	in.Title = strings.TrimSpace(c.PostForm("title"))
	in.Description = strings.TrimSpace(c.PostForm("description"))

	price, err := parsePriceCents(c.PostForm("price"))
	if err != nil {
		return in, &catalog.ValidationError{Field: "price", Reason: "must be numeric"}
	}
	in.PriceCents = price

	stockStr := strings.TrimSpace(c.PostForm("stock"))
	stock, err := strconv.Atoi(stockStr)
	if err != nil {
		return in, &catalog.ValidationError{Field: "stock", Reason: "must be an integer"}
	}
	in.Stock = stock

	if catStr := strings.TrimSpace(c.PostForm("category_id")); catStr != "" {
		catID, err := strconv.ParseUint(catStr, 10, 64)
		if err != nil {
			return in, &catalog.ValidationError{Field: "category_id", Reason: "must be a positive integer"}
		}
		in.CategoryID = uint(catID)
	}

	img, err := saveUploadedImage(c, "image", h.uploadDir)
	if err != nil {
		return in, &catalog.ValidationError{Field: "image", Reason: err.Error()}
	}
	in.ImagePath = img
	return in, nil
}

func (h *ProductHandler) List(c *gin.Context) {
	items, err := h.store.ListProducts()
	if err != nil {
		writeError(c, h.log.WithField("handler", "ListProducts"), err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) Get(c *gin.Context) {
	log := h.log.WithField("handler", "GetProduct")
	id, err := paramID(c)
	if err != nil {
		writeError(c, log, err)
		return
	}
	p, err := h.store.GetProduct(id)
	if err != nil {
		writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Mine lists the logged-in seller's own products.
func (h *ProductHandler) Mine(c *gin.Context) {
	items, err := h.store.ListBySeller(userFrom(c).ID)
	if err != nil {
		writeError(c, h.log.WithField("handler", "MyProducts"), err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) Create(c *gin.Context) {
	log := h.log.WithField("handler", "CreateProduct")
	in, err := h.productInputFromForm(c)
	if err != nil {
		writeError(c, log, err)
		return
	}
	p, err := h.store.CreateProduct(in, userFrom(c))
	if err != nil {
		writeError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) Update(c *gin.Context) {
	log := h.log.WithField("handler", "UpdateProduct")
	id, err := paramID(c)
	if err != nil {
		writeError(c, log, err)
		return
	}
	in, err := h.productInputFromForm(c)
	if err != nil {
		writeError(c, log, err)
		return
	}
	p, err := h.store.UpdateProduct(id, in, userFrom(c))
	if err != nil {
		writeError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	log := h.log.WithField("handler", "DeleteProduct")
	id, err := paramID(c)
	if err != nil {
		writeError(c, log, err)
		return
	}
	if err := h.store.DeleteProduct(id, userFrom(c)); err != nil {
		writeError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
