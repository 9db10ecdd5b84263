package handlers

import (
	"encoding/gob"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"tienda/internal/cart"
)

const (
	cartKey = "cart" // map[string]int
	userKey = "user_id"
)

func init() {
	// The cookie/redis stores gob-encode session values.
	gob.Register(map[string]int{})
}

func getCart(c *gin.Context) cart.Cart {
	sess := sessions.Default(c)
	if m, ok := sess.Get(cartKey).(map[string]int); ok {
		return cart.Cart(m)
	}
	return cart.New()
}

func saveCart(c *gin.Context, crt cart.Cart) error {
	sess := sessions.Default(c)
	sess.Set(cartKey, map[string]int(crt))
	return sess.Save()
}

func sessionUserID(c *gin.Context) (uint, bool) {
	sess := sessions.Default(c)
	id, ok := sess.Get(userKey).(uint)
	return id, ok
}

func setSessionUser(c *gin.Context, id uint) error {
	sess := sessions.Default(c)
	sess.Set(userKey, id)
	return sess.Save()
}

func clearSession(c *gin.Context) error {
	sess := sessions.Default(c)
	sess.Clear()
	return sess.Save()
}
