package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tienda/internal/models"
)

type AuthHandler struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewAuthHandler(db *gorm.DB, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{db: db, log: logger}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	log := h.log.WithField("handler", "Register")

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	var cnt int64
	h.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&cnt)
	if cnt > 0 {
		c.JSON(http.StatusConflict, errorBody{Error: "username taken"})
		return
	}
	h.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&cnt)
	if cnt > 0 {
		c.JSON(http.StatusConflict, errorBody{Error: "email already registered"})
		return
	}

	hash, err := models.HashPassword(req.Password)
	if err != nil {
		writeError(c, log, err)
		return
	}
	u := models.User{Email: req.Email, Username: req.Username, PasswordHash: hash, Role: models.RoleBuyer}
	if err := h.db.Create(&u).Error; err != nil {
		writeError(c, log, err)
		return
	}
	if err := setSessionUser(c, u.ID); err != nil {
		log.Warnf("save session: %v", err)
	}
	log.Infof("user %q registered with id %d", u.Username, u.ID)
	c.JSON(http.StatusCreated, u)
}

type loginRequest struct {
	Ident    string `json:"ident" binding:"required"` // email or username
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	log := h.log.WithField("handler", "Login")

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody{Error: "invalid request body: " + err.Error()})
		return
	}

	q := h.db
	if strings.Contains(req.Ident, "@") {
		q = q.Where("email = ?", req.Ident)
	} else {
		q = q.Where("username = ?", req.Ident)
	}
	var u models.User
	if err := q.First(&u).Error; err != nil {
		c.JSON(http.StatusUnauthorized, errorBody{Error: "invalid credentials"})
		return
	}
	if !models.CheckPassword(u.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, errorBody{Error: "invalid credentials"})
		return
	}
	if err := setSessionUser(c, u.ID); err != nil {
		log.Warnf("save session: %v", err)
	}
	log.Infof("user %q logged in", u.Username)
	c.JSON(http.StatusOK, u)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := clearSession(c); err != nil {
		h.log.Warnf("clear session: %v", err)
	}
	c.Status(http.StatusNoContent)
}

// BecomeSeller upgrades the logged-in buyer to a seller account.
func (h *AuthHandler) BecomeSeller(c *gin.Context) {
	u := userFrom(c)
	if u.CanSell() {
		c.JSON(http.StatusOK, u)
		return
	}
	u.Role = models.RoleSeller
	if err := h.db.Save(u).Error; err != nil {
		writeError(c, h.log.WithField("handler", "BecomeSeller"), err)
		return
	}
	h.log.Infof("user %q upgraded to seller", u.Username)
	c.JSON(http.StatusOK, u)
}
