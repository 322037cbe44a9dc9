package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// authMiddleware validates the bearer token and loads the caller's
// identity, including the global administrator flag, into the request
// context.
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get("Authorization")
		if auth == "" {
			return errJSON(c, http.StatusUnauthorized, "authorization required")
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth {
			return errJSON(c, http.StatusUnauthorized, "invalid authorization format")
		}

		var userID, expiresAt string
		var adminFlag int
		err := s.db.QueryRow(s.q(`
			SELECT s.user_id, s.expires_at, u.es_admin
			FROM sessions s JOIN users u ON u.id = s.user_id
			WHERE s.token = $1`),
			token,
		).Scan(&userID, &expiresAt, &adminFlag)
		if err != nil {
			return errJSON(c, http.StatusUnauthorized, "invalid token")
		}

		expiry, err := time.Parse(time.RFC3339, expiresAt)
		if err != nil || time.Now().After(expiry) {
			return errJSON(c, http.StatusUnauthorized, "token expired")
		}

		c.Set("user_id", userID)
		c.Set("is_admin", adminFlag == 1)
		c.Set("session_token", token)
		return next(c)
	}
}

func requestUserID(c echo.Context) string {
	return c.Get("user_id").(string)
}

func requestIsAdmin(c echo.Context) bool {
	return c.Get("is_admin").(bool)
}
