package auth

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	apperrors "campusmarket/internal/errors"
)

// SignatureParam is the query parameter that carries a URL signature.
const SignatureParam = "_signature"

// signedURLClaims bind a signature to one path and one user.
type signedURLClaims struct {
	Path  string `json:"path"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// URLSigner issues and checks tamper-evident links for privileged actions.
type URLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewURLSigner creates a signer whose links expire after ttl.
func NewURLSigner(secret string, ttl time.Duration) *URLSigner {
	return &URLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Sign returns path with a signature valid for email only.
func (s *URLSigner) Sign(path, email string) (string, error) {
	now := s.now()
	claims := &signedURLClaims{
		Path:  path,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return path + "?" + url.Values{SignatureParam: {token}}.Encode(), nil
}

// Check validates signature against path and email.
func (s *URLSigner) Check(path, email, signature string) error {
	if signature == "" {
		return apperrors.ErrInvalidSignature
	}
	claims := &signedURLClaims{}
	_, err := jwt.ParseWithClaims(signature, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return apperrors.ErrInvalidSignature
	}
	if claims.Path != path || claims.Email != email {
		return apperrors.ErrInvalidSignature
	}
	return nil
}

// Verify returns middleware that rejects requests whose signature does not
// match the request path and the session user. It must run after Session.
func (s *URLSigner) Verify() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := CurrentUser(c)
			if !ok {
				return unauthenticated()
			}
			if err := s.Check(c.Request().URL.Path, id.Email, c.QueryParam(SignatureParam)); err != nil {
				return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
					Error: err.Error(),
					Code:  "INVALID_SIGNATURE",
				})
			}
			return next(c)
		}
	}
}
