package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campusmarket/internal/model"
	"campusmarket/internal/service"
)

// SearchHandler handles search and filter endpoints.
type SearchHandler struct {
	listingService service.ListingService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(listingService service.ListingService) *SearchHandler {
	return &SearchHandler{listingService: listingService}
}

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []model.Listing `json:"results"`
}

// FilterPage is the index page narrowed by category or price.
type FilterPage struct {
	User     string          `json:"user"`
	Filter   string          `json:"filter"`
	Listings []model.Listing `json:"listings"`
}

// GetProducts godoc
// @Summary Search listings by name or description
// @Description Case-sensitive substring match. An empty query returns every listing.
// @Tags search
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search text"
// @Success 200 {object} SearchResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /get_products [get]
func (h *SearchHandler) GetProducts(c echo.Context) error {
	results, err := h.listingService.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, SearchResponse{Results: nonNil(results)})
}

// Filter godoc
// @Summary Filter listings by category or maximum price
// @Description A whole number n selects listings priced below n; anything else is matched against the category.
// @Tags search
// @Produce json
// @Security BearerAuth
// @Param category_or_price path string true "Category or price ceiling"
// @Success 200 {object} FilterPage
// @Failure 401 {object} errors.ErrorResponse
// @Router /filter/{category_or_price} [get]
func (h *SearchHandler) Filter(c echo.Context) error {
	segment := c.Param("category_or_price")
	listings, err := h.listingService.Filter(c.Request().Context(), segment)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, FilterPage{
		User:     currentEmail(c),
		Filter:   segment,
		Listings: nonNil(listings),
	})
}
