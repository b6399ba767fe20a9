package api

import (
	docs "github.com/SundayYogurt/herohq/docs"
	"github.com/gofiber/fiber/v2"
	fiberSwagger "github.com/swaggo/fiber-swagger"
)

func RegisterSwagger(app *fiber.App) {
	swagger := app.Group("/swagger")

	// follow the host and scheme the visitor actually used
	swagger.Use(func(c *fiber.Ctx) error {
		docs.SwaggerInfo.Host = c.Hostname()
		docs.SwaggerInfo.Schemes = []string{c.Protocol()}
		return c.Next()
	})

	swagger.Get("/*", fiberSwagger.WrapHandler)
}
