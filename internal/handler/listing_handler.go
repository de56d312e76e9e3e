package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"campusmarket/internal/auth"
	apperrors "campusmarket/internal/errors"
	"campusmarket/internal/form"
	"campusmarket/internal/model"
	"campusmarket/internal/service"
)

// ListingHandler handles listing pages and mutations.
type ListingHandler struct {
	listingService service.ListingService
	signer         *auth.URLSigner
	maxUpload      int64
	log            *zap.Logger
}

// NewListingHandler creates a new listing handler. Uploaded images larger
// than maxUpload bytes are rejected.
func NewListingHandler(listingService service.ListingService, signer *auth.URLSigner, maxUpload int64, log *zap.Logger) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
		signer:         signer,
		maxUpload:      maxUpload,
		log:            log,
	}
}

// ListingForm is a submitted add/edit listing form.
type ListingForm struct {
	Name        string `validate:"required"`
	Condition   string `validate:"condition"`
	Category    string `validate:"category"`
	Price       int    `validate:"min=1,max=1000000"`
	Description string
}

// IndexPage lists every listing.
type IndexPage struct {
	User     string          `json:"user"`
	Listings []model.Listing `json:"listings"`
}

// DescriptionPage shows one listing.
type DescriptionPage struct {
	User         string         `json:"user"`
	Listing      *model.Listing `json:"listing"`
	IncrementURL string         `json:"increment_url"`
}

// Index godoc
// @Summary List all listings
// @Tags listings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} IndexPage
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /index [get]
func (h *ListingHandler) Index(c echo.Context) error {
	listings, err := h.listingService.List(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, IndexPage{User: currentEmail(c), Listings: nonNil(listings)})
}

// Home godoc
// @Summary Redirect to the index
// @Tags listings
// @Security BearerAuth
// @Success 303
// @Router /home [get]
func (h *ListingHandler) Home(c echo.Context) error {
	return seeOther(c, "/index")
}

// Description godoc
// @Summary Show one listing
// @Tags listings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Success 200 {object} DescriptionPage
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /description/{id} [get]
func (h *ListingHandler) Description(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	listing, err := h.listingService.Get(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}

	email := currentEmail(c)
	incURL, err := h.signer.Sign(fmt.Sprintf("/inc/%d", listing.ID), email)
	if err != nil {
		h.log.Error("sign increment url", zap.Uint("listing_id", listing.ID), zap.Error(err))
		return httpError(err)
	}

	return c.JSON(http.StatusOK, DescriptionPage{
		User:         email,
		Listing:      listing,
		IncrementURL: incURL,
	})
}

// AddForm godoc
// @Summary Empty add-listing form
// @Tags listings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} FormPage
// @Router /add [get]
func (h *ListingHandler) AddForm(c echo.Context) error {
	return c.JSON(http.StatusOK, FormPage{
		User:   currentEmail(c),
		Action: "/add",
		Form:   form.ListingSchema.Render(nil),
	})
}

// Add godoc
// @Summary Create a listing
// @Tags listings
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param Name formData string true "Name"
// @Param Condition formData string true "Condition"
// @Param Category formData string true "Category"
// @Param Price formData int true "Price"
// @Param Image formData file false "Image"
// @Param Description formData string false "Description"
// @Success 303
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 422 {object} FormPage
// @Router /add [post]
func (h *ListingHandler) Add(c echo.Context) error {
	input, values, errs := h.bindListing(c)
	upload, err := h.readUpload(c)
	if err != nil {
		return h.uploadError(c, "/add", values, errs, err)
	}
	if len(errs) > 0 {
		return invalid(c, "/add", form.ListingSchema, values, errs)
	}

	_, err = h.listingService.Create(c.Request().Context(), currentEmail(c), input, upload)
	if err != nil {
		if verr, ok := apperrors.AsValidationError(err); ok {
			return invalid(c, "/add", form.ListingSchema, values, verr.Fields)
		}
		return httpError(err)
	}
	return seeOther(c, "/index")
}

// EditForm godoc
// @Summary Pre-filled edit form for an owned listing
// @Tags listings
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Success 200 {object} FormPage
// @Success 303
// @Router /edit/{id} [get]
func (h *ListingHandler) EditForm(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	listing, err := h.listingService.GetOwned(c.Request().Context(), currentEmail(c), id)
	if err != nil {
		return h.backToAccount(c, err)
	}

	return c.JSON(http.StatusOK, FormPage{
		User:   currentEmail(c),
		Action: c.Request().URL.Path,
		Form: form.ListingSchema.Render(map[string]string{
			"Name":        listing.Name,
			"Condition":   listing.Condition,
			"Category":    listing.Category,
			"Price":       strconv.Itoa(listing.Price),
			"Description": listing.Description,
		}),
	})
}

// Edit godoc
// @Summary Update an owned listing
// @Tags listings
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Success 303
// @Failure 422 {object} FormPage
// @Router /edit/{id} [post]
func (h *ListingHandler) Edit(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	owner := currentEmail(c)
	if _, err := h.listingService.GetOwned(ctx, owner, id); err != nil {
		return h.backToAccount(c, err)
	}

	action := c.Request().URL.Path
	input, values, errs := h.bindListing(c)
	upload, err := h.readUpload(c)
	if err != nil {
		return h.uploadError(c, action, values, errs, err)
	}
	if len(errs) > 0 {
		return invalid(c, action, form.ListingSchema, values, errs)
	}

	if _, err := h.listingService.Update(ctx, owner, id, input, upload); err != nil {
		if verr, ok := apperrors.AsValidationError(err); ok {
			return invalid(c, action, form.ListingSchema, values, verr.Fields)
		}
		return h.backToAccount(c, err)
	}
	return seeOther(c, "/account")
}

// Delete godoc
// @Summary Delete an owned listing
// @Tags listings
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Success 303
// @Router /delete_listing/{id} [post]
func (h *ListingHandler) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.listingService.Delete(c.Request().Context(), currentEmail(c), id); err != nil {
		return h.backToAccount(c, err)
	}
	return seeOther(c, "/account")
}

// Increment godoc
// @Summary Register interest in a listing
// @Description Requires a signed link obtained from the listing description.
// @Tags listings
// @Security BearerAuth
// @Param id path int true "Listing ID"
// @Param _signature query string true "URL signature"
// @Success 303
// @Failure 403 {object} errors.ErrorResponse
// @Router /inc/{id} [post]
func (h *ListingHandler) Increment(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.listingService.IncrementInterest(c.Request().Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrListingNotFound) {
			return seeOther(c, "/index")
		}
		return httpError(err)
	}
	return seeOther(c, "/index")
}

// backToAccount turns missing and foreign listings into a redirect to the
// account page; other errors surface as HTTP errors.
func (h *ListingHandler) backToAccount(c echo.Context, err error) error {
	if errors.Is(err, apperrors.ErrListingNotFound) || errors.Is(err, apperrors.ErrNotOwner) {
		if errors.Is(err, apperrors.ErrNotOwner) {
			h.log.Warn("listing access denied",
				zap.String("user", currentEmail(c)),
				zap.String("path", c.Request().URL.Path))
		}
		return seeOther(c, "/account")
	}
	return httpError(err)
}

func (h *ListingHandler) bindListing(c echo.Context) (service.ListingInput, map[string]string, map[string]string) {
	values := formValues(c, form.ListingSchema)
	errs := map[string]string{}

	in := ListingForm{
		Name:        values["Name"],
		Condition:   values["Condition"],
		Category:    values["Category"],
		Price:       parsePrice(values["Price"], errs),
		Description: values["Description"],
	}
	errs = validate(c, form.ListingSchema, &in, errs)

	return service.ListingInput{
		Name:        in.Name,
		Condition:   in.Condition,
		Category:    in.Category,
		Price:       in.Price,
		Description: in.Description,
	}, values, errs
}

var errImageTooLarge = errors.New("image too large")

// readUpload returns the Image part of the form, or nil when no file was sent.
func (h *ListingHandler) readUpload(c echo.Context) (*service.Upload, error) {
	fh, err := c.FormFile("Image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, apperrors.ErrInvalidImage
	}
	if fh.Filename == "" && fh.Size == 0 {
		return nil, nil
	}
	if h.maxUpload > 0 && fh.Size > h.maxUpload {
		return nil, errImageTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.ErrInvalidImage
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.ErrInvalidImage
	}
	return &service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Data:        data,
	}, nil
}

func (h *ListingHandler) uploadError(c echo.Context, action string, values, errs map[string]string, err error) error {
	if errors.Is(err, errImageTooLarge) {
		errs["Image"] = fmt.Sprintf("Image must be at most %d bytes", h.maxUpload)
		return invalid(c, action, form.ListingSchema, values, errs)
	}
	return httpError(err)
}

func nonNil(listings []model.Listing) []model.Listing {
	if listings == nil {
		return []model.Listing{}
	}
	return listings
}
