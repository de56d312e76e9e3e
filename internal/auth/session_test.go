package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionServer(svc *JWTService) *echo.Echo {
	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		id, _ := CurrentUser(c)
		return c.String(http.StatusOK, id.Email)
	}, Session(svc))
	return e
}

func TestSession(t *testing.T) {
	svc := NewJWTService("test-secret")
	e := newSessionServer(svc)

	access, err := svc.GenerateAccessToken(1, "a@ucsc.edu")
	require.NoError(t, err)
	_, refresh, err := svc.GenerateRefreshToken(1, "a@ucsc.edu")
	require.NoError(t, err)
	foreign, err := NewJWTService("other").GenerateAccessToken(1, "a@ucsc.edu")
	require.NoError(t, err)

	tests := []struct {
		name     string
		prepare  func(r *http.Request)
		wantCode int
	}{
		{
			name:     "bearer header",
			prepare:  func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer "+access) },
			wantCode: http.StatusOK,
		},
		{
			name:     "cookie",
			prepare:  func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: access}) },
			wantCode: http.StatusOK,
		},
		{
			name:     "missing token",
			prepare:  func(r *http.Request) {},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "refresh token is not a session",
			prepare:  func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer "+refresh) },
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "foreign signature",
			prepare:  func(r *http.Request) { r.Header.Set(echo.HeaderAuthorization, "Bearer "+foreign) },
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, "a@ucsc.edu", rec.Body.String())
			}
		})
	}
}

func TestJWTService_ExtractTokenID(t *testing.T) {
	svc := NewJWTService("test-secret")

	id, refresh, err := svc.GenerateRefreshToken(9, "a@ucsc.edu")
	require.NoError(t, err)
	got, err := svc.ExtractTokenID(refresh)
	require.NoError(t, err)
	assert.Equal(t, id, got)

	access, err := svc.GenerateAccessToken(9, "a@ucsc.edu")
	require.NoError(t, err)
	_, err = svc.ExtractTokenID(access)
	assert.Error(t, err)
}
