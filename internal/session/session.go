// Package session gives every browser an anonymous session id cookie. Carts
// are keyed by this id.
package session

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CookieName = "sid"
	contextKey = "sid"
)

type Config struct {
	TTL    time.Duration
	Secure bool
}

// Middleware reuses a well-formed sid cookie or issues a new one.
func Middleware(cfg Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ck, err := c.Cookie(CookieName); err == nil {
				if _, perr := uuid.Parse(ck.Value); perr == nil {
					c.Set(contextKey, ck.Value)
					return next(c)
				}
			}
			issue(c, cfg)
			return next(c)
		}
	}
}

// ID returns the session id attached by Middleware.
func ID(c echo.Context) string {
	sid, _ := c.Get(contextKey).(string)
	return sid
}

// Rotate replaces the session id, e.g. after logout.
func Rotate(c echo.Context, cfg Config) string {
	return issue(c, cfg)
}

func issue(c echo.Context, cfg Config) string {
	sid := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.Set(contextKey, sid)
	return sid
}
