package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "campusmarket/internal/errors"
)

func signatureOf(t *testing.T, signed string) string {
	t.Helper()
	u, err := url.Parse(signed)
	require.NoError(t, err)
	return u.Query().Get(SignatureParam)
}

func TestURLSigner_SignAndCheck(t *testing.T) {
	signer := NewURLSigner("secret", time.Hour)

	signed, err := signer.Sign("/inc/7", "a@ucsc.edu")
	require.NoError(t, err)
	assert.Contains(t, signed, "/inc/7?"+SignatureParam+"=")

	sig := signatureOf(t, signed)
	tests := []struct {
		name    string
		signer  *URLSigner
		path    string
		email   string
		sig     string
		wantErr bool
	}{
		{name: "valid", signer: signer, path: "/inc/7", email: "a@ucsc.edu", sig: sig},
		{name: "missing signature", signer: signer, path: "/inc/7", email: "a@ucsc.edu", sig: "", wantErr: true},
		{name: "other path", signer: signer, path: "/inc/8", email: "a@ucsc.edu", sig: sig, wantErr: true},
		{name: "other user", signer: signer, path: "/inc/7", email: "b@ucsc.edu", sig: sig, wantErr: true},
		{name: "forged", signer: signer, path: "/inc/7", email: "a@ucsc.edu", sig: sig + "x", wantErr: true},
		{name: "other key", signer: NewURLSigner("different", time.Hour), path: "/inc/7", email: "a@ucsc.edu", sig: sig, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.signer.Check(tt.path, tt.email, tt.sig)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidSignature)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestURLSigner_Expired(t *testing.T) {
	signer := NewURLSigner("secret", time.Minute)
	issued := time.Now()
	signer.now = func() time.Time { return issued }

	signed, err := signer.Sign("/inc/1", "a@ucsc.edu")
	require.NoError(t, err)

	signer.now = func() time.Time { return issued.Add(2 * time.Minute) }
	assert.ErrorIs(t, signer.Check("/inc/1", "a@ucsc.edu", signatureOf(t, signed)), apperrors.ErrInvalidSignature)
}

func TestURLSigner_VerifyMiddleware(t *testing.T) {
	signer := NewURLSigner("secret", time.Hour)
	signed, err := signer.Sign("/inc/3", "a@ucsc.edu")
	require.NoError(t, err)

	e := echo.New()
	reached := false
	h := signer.Verify()(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusNoContent)
	})

	t.Run("valid signature", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodGet, signed, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		SetCurrentUser(c, Identity{Email: "a@ucsc.edu"})

		require.NoError(t, h(c))
		assert.True(t, reached)
	})

	t.Run("tampered path", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodGet, "/inc/4?"+SignatureParam+"="+signatureOf(t, signed), nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		SetCurrentUser(c, Identity{Email: "a@ucsc.edu"})

		err := h(c)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusForbidden, he.Code)
		assert.False(t, reached)
	})

	t.Run("no session", func(t *testing.T) {
		reached = false
		req := httptest.NewRequest(http.MethodGet, signed, nil)
		c := e.NewContext(req, httptest.NewRecorder())

		err := h(c)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, http.StatusUnauthorized, he.Code)
		assert.False(t, reached)
	})
}
