package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/jmehta/storefront/internal/handlers"
	"github.com/jmehta/storefront/internal/middleware"
)

type Deps struct {
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	Guard          *middleware.Guard
	UploadDir      string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	e.Static("/uploads", d.UploadDir)

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/verify", d.AuthHandler.Verify, d.Guard.RequireSession)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/search/:query", d.ProductHandler.SearchProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)

	products.POST("", d.ProductHandler.CreateProduct, d.Guard.RequireSession)
	products.PUT("/:id", d.ProductHandler.UpdateProduct, d.Guard.RequireSession)
	products.PATCH("/:id/toggle", d.ProductHandler.ToggleAvailability, d.Guard.RequireSession)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, d.Guard.RequireSession)
}
