package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tienda/internal/catalog"
)

type CategoryHandler struct {
	store *catalog.Store
	log   *logrus.Logger
}

func NewCategoryHandler(store *catalog.Store, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{store: store, log: logger}
}

func (h *CategoryHandler) List(c *gin.Context) {
	cats, err := h.store.ListCategories()
	if err != nil {
		writeError(c, h.log.WithField("handler", "ListCategories"), err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

type createCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *CategoryHandler) Create(c *gin.Context) {
	log := h.log.WithField("handler", "CreateCategory")

	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}
	cat, err := h.store.CreateCategory(req.Name)
	if err != nil {
		writeError(c, log, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}
