package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tienda/internal/models"
)

const currentUserKey = "currentUser"

func loadUser(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	id, ok := sessionUserID(c)
	if !ok {
		return nil, false
	}
	var u models.User
	if err := db.First(&u, "id = ?", id).Error; err != nil {
		return nil, false
	}
	c.Set(currentUserKey, &u)
	return &u, true
}

// MustLogin loads the session's user and aborts with 401 when there is
// none. The loaded user is stashed in the request context for handlers
// further down the chain.
func MustLogin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := loadUser(c, db); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "login required"})
			return
		}
		c.Next()
	}
}

// MustSeller admits sellers and admins.
func MustSeller(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := loadUser(c, db)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "login required"})
			return
		}
		if !u.CanSell() {
			c.AbortWithStatusJSON(http.StatusForbidden, errorBody{Error: "seller account required"})
			return
		}
		c.Next()
	}
}

// MustAdmin admits admins only.
func MustAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := loadUser(c, db)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody{Error: "login required"})
			return
		}
		if u.Role != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, errorBody{Error: "admin account required"})
			return
		}
		c.Next()
	}
}

func userFrom(c *gin.Context) *models.User {
	u, _ := c.MustGet(currentUserKey).(*models.User)
	return u
}
