package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tienda/internal/cart"
	"tienda/internal/catalog"
)

type errorBody struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	var ve *catalog.ValidationError
	var nf *catalog.NotFoundError
	var ins *catalog.InsufficientStockError
	switch {
	case errors.As(err, &ve), errors.Is(err, cart.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.Is(err, catalog.ErrForbidden):
		return http.StatusForbidden
	case errors.As(err, &ins):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError maps a service error onto an HTTP status and a JSON body.
// Internal errors are logged but not echoed to the client.
func writeError(c *gin.Context, log logrus.FieldLogger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Errorf("handler error: %v", err)
		c.JSON(status, errorBody{Error: "internal server error"})
		return
	}
	log.Warnf("request rejected: %v", err)
	c.JSON(status, errorBody{Error: err.Error()})
}
