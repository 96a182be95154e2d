package middleware

import (
	"net/http"

	"github.com/Skotchmaster/storefront/pkg/tokens"
	"github.com/labstack/echo/v4"
)

const claimsKey = "session_claims"

type SessionMiddleware struct {
	Secret []byte
}

func NewSessionMiddleware(secret []byte) *SessionMiddleware {
	return &SessionMiddleware{Secret: secret}
}

type ValidatorFunc func(claims *tokens.SessionClaims) error

func (m *SessionMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireSessionWithValidator(next, nil)
}

func (m *SessionMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireSessionWithValidator(next, func(claims *tokens.SessionClaims) error {
		if !claims.IsAdmin() {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

// Optional attaches the principal when a valid session cookie is present and
// never rejects the request.
func (m *SessionMiddleware) Optional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if claims := m.readClaims(c); claims != nil {
			setUserContext(c, claims)
		}
		return next(c)
	}
}

func (m *SessionMiddleware) requireSessionWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(tokens.SessionCookie)
		if err != nil || cookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}

		claims, err := tokens.SessionClaimsFromToken(cookie.Value, m.Secret)
		if err != nil || claims == nil {
			c.SetCookie(tokens.DeleteCookie(tokens.SessionCookie, "/"))
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
		}

		if validator != nil {
			if validationErr := validator(claims); validationErr != nil {
				return validationErr
			}
		}

		setUserContext(c, claims)
		return next(c)
	}
}

func (m *SessionMiddleware) readClaims(c echo.Context) *tokens.SessionClaims {
	cookie, err := c.Cookie(tokens.SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims, err := tokens.SessionClaimsFromToken(cookie.Value, m.Secret)
	if err != nil {
		return nil
	}
	return claims
}

func setUserContext(c echo.Context, claims *tokens.SessionClaims) {
	c.Set("user_id", claims.Subject)
	c.Set("role", claims.Role)
	c.Set(claimsKey, claims)
}

// ClaimsFrom returns the principal attached by one of the middlewares, or nil.
func ClaimsFrom(c echo.Context) *tokens.SessionClaims {
	claims, _ := c.Get(claimsKey).(*tokens.SessionClaims)
	return claims
}
