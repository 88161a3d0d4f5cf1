package handler

import "github.com/labstack/echo/v4"

// userIDFromContext returns the authenticated user ID injected by the Auth
// middleware, or "" when the route is unauthenticated.
func userIDFromContext(c echo.Context) string {
	id, _ := c.Get("user_id").(string)
	return id
}

// clientIP returns the best-effort originating address of the request.
func clientIP(c echo.Context) string {
	return c.RealIP()
}
