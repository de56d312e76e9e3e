package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "campusmarket/internal/errors"
	"campusmarket/internal/model"
	"campusmarket/internal/service"
)

func TestAccountHandler_Account(t *testing.T) {
	svc := new(MockAccountInfoService)
	svc.On("View", mock.Anything, owner).Return(&service.AccountView{
		Info:     model.NewDefaultAccountInfo(owner),
		Listings: []model.Listing{*bike(1)},
	}, nil)

	e := newTestEcho(owner)
	e.GET("/account", NewAccountHandler(svc).Account)

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/account", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page AccountPage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, "N/A", page.Info.Phone)
	assert.Equal(t, "Other", page.Info.Payment)
	assert.Len(t, page.Listings, 1)
}

func TestAccountHandler_SaveAccountInfo(t *testing.T) {
	t.Run("valid inserts and shows account", func(t *testing.T) {
		svc := new(MockAccountInfoService)
		svc.On("SaveContact", mock.Anything, owner, service.ContactInput{
			Address: "Porter B",
			Phone:   model.DefaultPhone,
			College: "Porter",
		}).Return(&model.AccountInfo{ID: 2, Email: owner}, nil)
		svc.On("View", mock.Anything, owner).Return(&service.AccountView{Info: &model.AccountInfo{ID: 2, Email: owner}}, nil)

		e := newTestEcho(owner)
		e.POST("/save_account_info", NewAccountHandler(svc).SaveAccountInfo)

		rec := serve(e, formRequest(http.MethodPost, "/save_account_info", url.Values{
			"Address": {"Porter B"},
			"College": {"Porter"},
		}))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("unknown college is rejected", func(t *testing.T) {
		svc := new(MockAccountInfoService)
		e := newTestEcho(owner)
		e.POST("/save_account_info", NewAccountHandler(svc).SaveAccountInfo)

		rec := serve(e, formRequest(http.MethodPost, "/save_account_info", url.Values{
			"Address": {"Somewhere"},
			"College": {"Merrill"},
		}))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var page FormPage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		for _, f := range page.Form.Fields {
			if f.Name == "College" {
				assert.Equal(t, "Merrill", f.Value)
				assert.NotEmpty(t, f.Error)
			}
		}
		svc.AssertNotCalled(t, "SaveContact", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAccountHandler_EditAccount(t *testing.T) {
	values := url.Values{
		"Phone":   {"831-555-0100"},
		"Payment": {"Venmo"},
		"College": {"Crown"},
		"Address": {"Crown 12"},
	}

	t.Run("owner", func(t *testing.T) {
		svc := new(MockAccountInfoService)
		svc.On("GetOwned", mock.Anything, owner, uint(4)).Return(model.NewDefaultAccountInfo(owner), nil)
		svc.On("Update", mock.Anything, owner, uint(4), service.AccountInfoInput{
			Phone:   "831-555-0100",
			Payment: "Venmo",
			College: "Crown",
			Address: "Crown 12",
		}).Return(&model.AccountInfo{ID: 4}, nil)

		e := newTestEcho(owner)
		e.POST("/edit_account/:id", NewAccountHandler(svc).EditAccount)

		rec := serve(e, formRequest(http.MethodPost, "/edit_account/4", values))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/account", rec.Header().Get("Location"))
		svc.AssertExpectations(t)
	})

	t.Run("owner gets pre-filled form", func(t *testing.T) {
		svc := new(MockAccountInfoService)
		svc.On("GetOwned", mock.Anything, owner, uint(4)).Return(model.NewDefaultAccountInfo(owner), nil)

		e := newTestEcho(owner)
		e.GET("/edit_account/:id", NewAccountHandler(svc).EditAccountForm)

		rec := serve(e, httptest.NewRequest(http.MethodGet, "/edit_account/4", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var page FormPage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.Equal(t, "account_info", page.Form.Name)
	})

	t.Run("invalid payment", func(t *testing.T) {
		svc := new(MockAccountInfoService)
		svc.On("GetOwned", mock.Anything, owner, uint(4)).Return(model.NewDefaultAccountInfo(owner), nil)

		e := newTestEcho(owner)
		e.POST("/edit_account/:id", NewAccountHandler(svc).EditAccount)

		bad := url.Values{"Payment": {"PayPal"}, "College": {"Crown"}}
		rec := serve(e, formRequest(http.MethodPost, "/edit_account/4", bad))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	for _, denied := range []error{apperrors.ErrNotOwner, apperrors.ErrAccountInfoNotFound} {
		t.Run("denied: "+denied.Error(), func(t *testing.T) {
			svc := new(MockAccountInfoService)
			svc.On("GetOwned", mock.Anything, intruder, uint(4)).Return(nil, denied)

			e := newTestEcho(intruder)
			h := NewAccountHandler(svc)
			e.GET("/edit_account/:id", h.EditAccountForm)
			e.POST("/edit_account/:id", h.EditAccount)

			rec := serve(e, httptest.NewRequest(http.MethodGet, "/edit_account/4", nil))
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/index", rec.Header().Get("Location"))

			rec = serve(e, formRequest(http.MethodPost, "/edit_account/4", values))
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/index", rec.Header().Get("Location"))
			svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}
