// Package router wires handlers to their routes. The surface splits into
// three tiers: public endpoints reached through a table's QR code, staff
// endpoints behind JWT auth, and admin endpoints restricted to the ADMIN
// role.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"qrmenu-backend/internal/config"
	"qrmenu-backend/internal/handler"
	"qrmenu-backend/internal/metrics"
	"qrmenu-backend/internal/middleware"
	"qrmenu-backend/internal/model"
)

// RegisterRoutes registers the operational endpoints that carry no
// authentication: the health check and the Prometheus scrape target.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// RegisterAuth registers login/refresh/logout plus the authenticated /me
// endpoint. Staff accounts are created by an admin, so /register lives
// under the admin group instead of here.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	me := e.Group("/v1")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("/me", a.Me)
}

// RegisterPublic registers the guest-facing endpoints customers reach by
// scanning a table's QR sticker. The menu and table reads sit behind the
// Redis response cache; everything public is rate limited per client IP.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, o *handler.PublicOrderHandler,
	rdb *redis.Client, cacheCfg config.CacheConfig, rlCfg config.RateLimitConfig) {
	g := e.Group("/v1")
	g.Use(middleware.RateLimit(rlCfg, rdb))

	cached := g.Group("", middleware.ResponseCache(cacheCfg, rdb))
	cached.GET("/menu", p.GetMenu)
	cached.GET("/t/:code", p.GetTable)

	g.POST("/t/:code/orders", o.CreateOrder)
	g.GET("/orders/:reference", o.TrackOrder)
}

// RegisterStaff registers the kitchen/floor endpoints. Both STAFF and
// ADMIN roles are accepted.
func RegisterStaff(e *echo.Echo, jwtSecret string,
	so *handler.StaffOrderHandler, st *handler.StaffTableHandler, r *handler.ReservationHandler) {
	g := e.Group("/v1/staff")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleStaff, model.RoleAdmin))

	g.GET("/orders", so.ListOrders)
	g.GET("/orders/:id", so.GetOrder)
	g.PATCH("/orders/:id/status", so.UpdateStatus)

	g.GET("/tables", st.ListTables)
	g.PATCH("/tables/:id/status", st.UpdateStatus)

	g.POST("/reservations", r.Create)
	g.GET("/reservations", r.List)
	g.GET("/reservations/:id", r.Get)
	g.PUT("/reservations/:id", r.Update)
	g.PATCH("/reservations/:id/status", r.UpdateStatus)
}

// RegisterAdmin registers the management endpoints: catalogue CRUD, table
// layout, account creation, discount settings and the retention sweeps.
func RegisterAdmin(e *echo.Echo, jwtSecret string, a *handler.AuthHandler,
	cat *handler.AdminCategoryHandler, menu *handler.AdminMenuHandler,
	tab *handler.AdminTableHandler, disc *handler.AdminDiscountHandler,
	purge *handler.AdminPurgeHandler) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))

	g.POST("/users", a.Register)

	g.POST("/categories", cat.Create)
	g.GET("/categories", cat.List)
	g.PUT("/categories/:id", cat.Update)
	g.DELETE("/categories/:id", cat.Delete)

	g.POST("/menu-items", menu.Create)
	g.GET("/menu-items", menu.List)
	g.GET("/menu-items/:id", menu.Get)
	g.PUT("/menu-items/:id", menu.Update)
	g.PATCH("/menu-items/:id/availability", menu.SetAvailability)
	g.POST("/menu-items/:id/image", menu.UploadImage)
	g.DELETE("/menu-items/:id", menu.Delete)

	g.POST("/tables", tab.Create)
	g.PUT("/tables/:id", tab.Update)

	g.GET("/discount", disc.Get)
	g.PUT("/discount", disc.Update)

	g.POST("/purge/reservations", purge.PurgeReservations)
	g.POST("/purge/orders", purge.PurgeStaleOrders)
}
