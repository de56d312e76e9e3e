package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"campusmarket/internal/auth"
	"campusmarket/internal/form"
	"campusmarket/internal/model"
	"campusmarket/internal/service"
)

const (
	owner    = "seller@ucsc.edu"
	intruder = "intruder@ucsc.edu"
)

type testValidator struct {
	v *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.v.Struct(i)
}

// newTestEcho returns an echo instance whose requests are made as email.
func newTestEcho(email string) *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{v: form.NewValidator()}
	if email != "" {
		e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				auth.SetCurrentUser(c, auth.Identity{UserID: 1, Email: email})
				return next(c)
			}
		})
	}
	return e
}

func newSigner() *auth.URLSigner {
	return auth.NewURLSigner("url-secret", time.Hour)
}

func newListingHandler(svc service.ListingService) *ListingHandler {
	return NewListingHandler(svc, newSigner(), 1<<10, zap.NewNop())
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

type filePart struct {
	name        string
	contentType string
	data        []byte
}

func multipartRequest(target string, values map[string]string, file *filePart) *http.Request {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range values {
		_ = mw.WriteField(k, v)
	}
	if file != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="Image"; filename="`+file.name+`"`)
		if file.contentType != "" {
			h.Set("Content-Type", file.contentType)
		}
		part, _ := mw.CreatePart(h)
		_, _ = part.Write(file.data)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	return req
}

// MockListingService is a mock implementation of service.ListingService.
type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) listings(args mock.Arguments) ([]model.Listing, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Listing), args.Error(1)
}

func (m *MockListingService) listing(args mock.Arguments) (*model.Listing, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Listing), args.Error(1)
}

func (m *MockListingService) List(ctx context.Context) ([]model.Listing, error) {
	return m.listings(m.Called(ctx))
}

func (m *MockListingService) ListByCreator(ctx context.Context, email string) ([]model.Listing, error) {
	return m.listings(m.Called(ctx, email))
}

func (m *MockListingService) Get(ctx context.Context, id uint) (*model.Listing, error) {
	return m.listing(m.Called(ctx, id))
}

func (m *MockListingService) GetOwned(ctx context.Context, owner string, id uint) (*model.Listing, error) {
	return m.listing(m.Called(ctx, owner, id))
}

func (m *MockListingService) Create(ctx context.Context, owner string, input service.ListingInput, image *service.Upload) (*model.Listing, error) {
	return m.listing(m.Called(ctx, owner, input, image))
}

func (m *MockListingService) Update(ctx context.Context, owner string, id uint, input service.ListingInput, image *service.Upload) (*model.Listing, error) {
	return m.listing(m.Called(ctx, owner, id, input, image))
}

func (m *MockListingService) Delete(ctx context.Context, owner string, id uint) error {
	return m.Called(ctx, owner, id).Error(0)
}

func (m *MockListingService) Search(ctx context.Context, q string) ([]model.Listing, error) {
	return m.listings(m.Called(ctx, q))
}

func (m *MockListingService) Filter(ctx context.Context, categoryOrPrice string) ([]model.Listing, error) {
	return m.listings(m.Called(ctx, categoryOrPrice))
}

func (m *MockListingService) IncrementInterest(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

// MockAccountInfoService is a mock implementation of service.AccountInfoService.
type MockAccountInfoService struct {
	mock.Mock
}

func (m *MockAccountInfoService) info(args mock.Arguments) (*model.AccountInfo, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccountInfo), args.Error(1)
}

func (m *MockAccountInfoService) View(ctx context.Context, email string) (*service.AccountView, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AccountView), args.Error(1)
}

func (m *MockAccountInfoService) SaveContact(ctx context.Context, email string, input service.ContactInput) (*model.AccountInfo, error) {
	return m.info(m.Called(ctx, email, input))
}

func (m *MockAccountInfoService) GetOwned(ctx context.Context, email string, id uint) (*model.AccountInfo, error) {
	return m.info(m.Called(ctx, email, id))
}

func (m *MockAccountInfoService) Update(ctx context.Context, email string, id uint, input service.AccountInfoInput) (*model.AccountInfo, error) {
	return m.info(m.Called(ctx, email, id, input))
}

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	args := m.Called(ctx, email, password, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, *model.User, error) {
	args := m.Called(ctx, email, password)
	var user *model.User
	if args.Get(2) != nil {
		user = args.Get(2).(*model.User)
	}
	return args.String(0), args.String(1), user, args.Error(3)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

func (m *MockAuthService) Profile(ctx context.Context, userID uint) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
