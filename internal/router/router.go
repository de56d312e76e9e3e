package router

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"campusmarket/internal/auth"
	"campusmarket/internal/config"
	"campusmarket/internal/form"
	"campusmarket/internal/handler"
	"campusmarket/internal/logging"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Listing *handler.ListingHandler
	Search  *handler.SearchHandler
	Account *handler.AccountHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *zap.Logger,
	h Handlers,
	jwtService *auth.JWTService,
	signer *auth.URLSigner,
) {
	e.Use(middleware.RequestID())
	e.Use(logging.RequestLogger(log))
	e.Use(middleware.Recover())
	if cfg.MaxUploadBytes > 0 {
		// multipart overhead on top of the largest accepted image
		e.Use(middleware.BodyLimit(bodyLimit(cfg.MaxUploadBytes + 1<<20)))
	}

	e.Validator = &CustomValidator{validator: form.NewValidator()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Public routes
	e.POST("/auth/register", h.Auth.Register)
	e.POST("/auth/login", h.Auth.Login)
	e.POST("/auth/refresh", h.Auth.Refresh)
	e.POST("/auth/logout", h.Auth.Logout)

	// Everything else requires a session.
	secured := e.Group("", auth.Session(jwtService))

	secured.GET("/me", h.User.Me)

	getPost(secured, "/", h.Listing.Index)
	getPost(secured, "/index", h.Listing.Index)
	getPost(secured, "/home", h.Listing.Home)
	getPost(secured, "/description/:id", h.Listing.Description)
	secured.GET("/add", h.Listing.AddForm)
	secured.POST("/add", h.Listing.Add)
	secured.GET("/edit/:id", h.Listing.EditForm)
	secured.POST("/edit/:id", h.Listing.Edit)
	getPost(secured, "/delete_listing/:id", h.Listing.Delete)

	// Privileged: session plus a signed link from the description page.
	getPost(secured, "/inc/:id", h.Listing.Increment, signer.Verify())

	secured.GET("/get_products", h.Search.GetProducts)
	getPost(secured, "/filter/:category_or_price", h.Search.Filter)

	getPost(secured, "/account", h.Account.Account)
	secured.GET("/save_account_info", h.Account.SaveAccountInfoForm)
	secured.POST("/save_account_info", h.Account.SaveAccountInfo)
	secured.GET("/edit_account/:id", h.Account.EditAccountForm)
	secured.POST("/edit_account/:id", h.Account.EditAccount)
}

func bodyLimit(n int64) string {
	return strconv.FormatInt(n, 10) + "B"
}

func getPost(g *echo.Group, path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	g.GET(path, h, m...)
	g.POST(path, h, m...)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
