// admin.go - privacy-conscious admin area over the visitor store
package main

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const adminCookie = "admin_token"

type AdminHandler struct {
	store  *VisitorStore
	cfg    *Config
	logger *zap.Logger
	token  string
}

func NewAdminHandler(store *VisitorStore, cfg *Config, logger *zap.Logger) (*AdminHandler, error) {
	token, err := randomToken()
	if err != nil {
		return nil, err
	}
	logger.Info("admin access available at /admin/login")
	if gin.Mode() == gin.DebugMode {
		if cfg.AdminUsername == configDefaults["admin_username"] || cfg.AdminPassword == configDefaults["admin_password"] {
			logger.Warn("using default admin credentials, set ADMIN_USERNAME and ADMIN_PASSWORD")
		}
	}
	return &AdminHandler{store: store, cfg: cfg, logger: logger, token: token}, nil
}

// Middleware to check admin authentication
func (h *AdminHandler) auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Privacy-conscious visitor tracking middleware
func visitorTrackingMiddleware(tracker *VisitorTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || !shouldTrack(path, c.Request.Header) {
			c.Next()
			return
		}
		tracker.Track(c.ClientIP(), c.GetHeader("User-Agent"), path)
		c.Next()
	}
}

func credentialsMatch(gotUser, gotPass, wantUser, wantPass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(gotUser), []byte(wantUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(gotPass), []byte(wantPass)) == 1
	return userOK && passOK
}

func (h *AdminHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		if credentialsMatch(username, password, h.cfg.AdminUsername, h.cfg.AdminPassword) {
			c.SetCookie(adminCookie, h.token, 3600*24, "/admin", "", false, true)
			h.logger.Info("admin login", zap.String("client", h.store.HashIP(c.ClientIP())))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		h.logger.Warn("failed admin login", zap.String("client", h.store.HashIP(c.ClientIP())))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	g := r.Group("/admin")
	g.Use(h.auth())

	g.GET("/dashboard", func(c *gin.Context) {
		stats, err := h.store.Stats(c.Request.Context())
		if err != nil {
			h.logger.Error("loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	g.GET("/api/stats", func(c *gin.Context) {
		stats, err := h.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	g.GET("/visitors", func(c *gin.Context) {
		visitors, err := h.store.Recent(c.Request.Context(), 200)
		if err != nil {
			h.logger.Error("loading visitors", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	g.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := h.store.Cleanup(c.Request.Context(), h.cfg.VisitorRetention)
		if err != nil {
			h.logger.Error("privacy cleanup", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Privacy cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup done", "removed": n})
	})

	g.GET("/export/stats", func(c *gin.Context) {
		stats, err := h.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		h.logger.Info("admin stats exported", zap.String("client", h.store.HashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})
}
