package api

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires the public API under the given Echo group.
// listAuth guards the registration listing.
func RegisterRoutes(g *echo.Group, h *Handler, listAuth echo.MiddlewareFunc) {
	g.GET("/health", h.Health)

	g.POST("/registrations", h.CreateRegistration)
	g.GET("/registrations", h.ListRegistrations, listAuth)
}
