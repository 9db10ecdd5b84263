package main

import (
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tienda/internal/cart"
	"tienda/internal/catalog"
	"tienda/internal/config"
	"tienda/internal/db"
	"tienda/internal/handlers"
	"tienda/internal/models"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	conn, err := db.Open(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal(err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Category{}, &models.Product{}); err != nil {
		logger.Fatalf("migrate: %v", err)
	}
	sqlDB, _ := conn.DB()
	defer sqlDB.Close()

	store := catalog.NewStore(conn, logger)
	engine := cart.NewEngine(store, cfg.Policy(), logger)

	authH := handlers.NewAuthHandler(conn, logger)
	catH := handlers.NewCategoryHandler(store, logger)
	prodH := handlers.NewProductHandler(store, cfg.UploadDir, logger)
	cartH := handlers.NewCartHandler(store, engine, logger)

	r := gin.Default()
	r.Static("/uploads", "./"+cfg.UploadDir)

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions("tienda_session", sessionStore))

	r.GET("/health", func(c *gin.Context) {
		if err := sqlDB.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "db": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// auth
	r.POST("/register", authH.Register)
	r.POST("/login", authH.Login)
	r.POST("/logout", authH.Logout)
	r.POST("/seller/upgrade", handlers.MustLogin(conn), authH.BecomeSeller)

	// catalog
	r.GET("/categories", catH.List)
	r.POST("/categories", handlers.MustAdmin(conn), catH.Create)
	r.GET("/products", prodH.List)
	r.GET("/products/:id", prodH.Get)
	r.POST("/products", handlers.MustSeller(conn), prodH.Create)
	r.PUT("/products/:id", handlers.MustSeller(conn), prodH.Update)
	r.DELETE("/products/:id", handlers.MustSeller(conn), prodH.Delete)
	r.GET("/seller/products", handlers.MustSeller(conn), prodH.Mine)

	// cart & checkout
	r.POST("/cart/add", cartH.Add)
	r.POST("/cart/update", cartH.Update)
	r.POST("/cart/remove", cartH.Remove)
	r.GET("/cart", cartH.View)
	r.POST("/checkout", cartH.Checkout)

	logger.Infof("server listening on :%s", cfg.Port)
	logger.Fatal(r.Run(":" + cfg.Port))
}
