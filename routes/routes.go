package routes

import (
	"net/http"

	"academy-service/controllers"
	"academy-service/middleware"
	"academy-service/models"

	"github.com/gin-gonic/gin"
)

// Controllers groups the HTTP handlers mounted by Register.
type Controllers struct {
	Auth    *controllers.AuthController
	Courses *controllers.CourseController
	Orders  *controllers.OrderController
	Account *controllers.AccountController
	Admin   *controllers.AdminController
}

// Options tunes route registration.
type Options struct {
	Authenticator *middleware.Authenticator
	// AuthLimiter guards the credential endpoints. Nil disables it.
	AuthLimiter gin.HandlerFunc
	// ReceiptDir is served under /uploads/receipts when local storage is used.
	ReceiptDir string
}

// Register mounts the API under both "/" and "/api".
func Register(r *gin.Engine, h Controllers, opts Options) {
	r.GET("/health", Health)
	r.GET("/metrics", middleware.PrometheusHandler())

	if opts.ReceiptDir != "" {
		r.Static("/uploads/receipts", opts.ReceiptDir)
	}

	for _, prefix := range []string{"", "/api"} {
		registerAPI(r.Group(prefix), h, opts)
	}
}

func registerAPI(g *gin.RouterGroup, h Controllers, opts Options) {
	authn := opts.Authenticator
	adminOnly := []gin.HandlerFunc{authn.RequireAuth(), middleware.RequireRole(models.RoleAdmin)}

	auth := g.Group("/auth")
	if opts.AuthLimiter != nil {
		auth.Use(opts.AuthLimiter)
	}
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/forgot-password", h.Auth.ForgotPassword)
	auth.POST("/reset-password", h.Auth.ResetPassword)
	auth.GET("/me", authn.RequireAuth(), h.Auth.Me)

	g.GET("/courses", h.Courses.List)

	orders := g.Group("/orders")
	orders.POST("", authn.OptionalAuth(), h.Orders.Create)
	orders.GET("/me", authn.RequireAuth(), h.Orders.ListMine)
	orders.POST("/:id/receipt", authn.OptionalAuth(), h.Orders.UploadReceipt)
	orders.GET("/admin", append(adminOnly, h.Orders.ListAll)...)
	orders.PUT("/:id/status", append(adminOnly, h.Orders.UpdateStatus)...)

	g.GET("/account/stats", authn.RequireAuth(), h.Account.Stats)

	admin := g.Group("/admin", adminOnly...)
	admin.GET("/students", h.Admin.Students)
	admin.GET("/revenue", h.Admin.Revenue)
}

// Health handles GET /health.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "service": "academy-service"})
}
