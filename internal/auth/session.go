package auth

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "campusmarket/internal/errors"
)

const (
	// AccessTokenCookie names the cookie that carries the access token for
	// browser clients.
	AccessTokenCookie = "access_token"

	contextKey = "user"
)

// Identity is the authenticated user behind a request.
type Identity struct {
	UserID uint
	Email  string
}

// Session returns middleware that admits only requests bearing a valid access
// token, either as a Bearer header or in the access_token cookie.
func Session(s *JWTService) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		SigningKey:  s.Secret(),
		ContextKey:  contextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ,cookie:" + AccessTokenCookie,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return unauthenticated()
		},
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(func(c echo.Context) error {
			if _, ok := CurrentUser(c); !ok {
				return unauthenticated()
			}
			return next(c)
		})
	}
}

// CurrentUser returns the identity stored by Session. Refresh tokens never
// count as an identity.
func CurrentUser(c echo.Context) (Identity, bool) {
	token, ok := c.Get(contextKey).(*jwt.Token)
	if !ok || token == nil {
		return Identity{}, false
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Kind != KindAccess || claims.Email == "" {
		return Identity{}, false
	}
	return Identity{UserID: claims.UserID, Email: claims.Email}, true
}

// SetCurrentUser stores id on the context the same way Session does.
func SetCurrentUser(c echo.Context, id Identity) {
	c.Set(contextKey, &jwt.Token{
		Valid:  true,
		Claims: &Claims{UserID: id.UserID, Email: id.Email, Kind: KindAccess},
	})
}

func unauthenticated() error {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
		Error: "login required",
		Code:  "UNAUTHENTICATED",
	})
}
