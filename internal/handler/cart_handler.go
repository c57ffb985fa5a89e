package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"storefront/internal/errors"
	"storefront/internal/service"
)

// CartHandler handles the authenticated user's cart and wishlist.
type CartHandler struct {
	cartService service.CartService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// CartLineRequest is one entry in a cart replace payload.
type CartLineRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required"`
}

// SetCartRequest replaces the cart wholesale. An empty item list clears it.
type SetCartRequest struct {
	Items []CartLineRequest `json:"items" validate:"dive"`
}

// WishlistAddRequest adds a product reference to the wishlist.
type WishlistAddRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

// GetCart godoc
// @Summary Get the authenticated user's cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.CartItem
// @Failure 404 {object} errors.ErrorResponse
// @Router /me/cart [get]
func (h *CartHandler) GetCart(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}
	items, err := h.cartService.GetCart(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, items)
}

// SetCart godoc
// @Summary Replace the authenticated user's cart
// @Tags cart
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SetCartRequest true "Cart contents"
// @Success 200 {array} model.CartItem
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /me/cart [put]
func (h *CartHandler) SetCart(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}

	var req SetCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	lines := make([]service.CartLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, service.CartLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	items, err := h.cartService.SetCart(c.Request().Context(), claims.UserID, lines)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, items)
}

// RemoveCartItem godoc
// @Summary Remove one product from the cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param productID path string true "Product ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /me/cart/{productID} [delete]
func (h *CartHandler) RemoveCartItem(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}
	productID, err := pathUUID(c, "productID")
	if err != nil {
		return err
	}
	if err := h.cartService.RemoveCartItem(c.Request().Context(), claims.UserID, productID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "item removed from cart",
	})
}

// ClearCart godoc
// @Summary Empty the authenticated user's cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /me/cart [delete]
func (h *CartHandler) ClearCart(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}
	if err := h.cartService.ClearCart(c.Request().Context(), claims.UserID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "cart cleared",
	})
}

// GetWishlist godoc
// @Summary Get the authenticated user's wishlist
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.WishlistItem
// @Failure 404 {object} errors.ErrorResponse
// @Router /me/wishlist [get]
func (h *CartHandler) GetWishlist(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}
	items, err := h.cartService.GetWishlist(c.Request().Context(), claims.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, items)
}

// AddToWishlist godoc
// @Summary Add a product to the wishlist (idempotent)
// @Tags wishlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body WishlistAddRequest true "Product reference"
// @Success 200 {object} map[string]string
// @Success 201 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /me/wishlist [post]
func (h *CartHandler) AddToWishlist(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}

	var req WishlistAddRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	added, err := h.cartService.AddToWishlist(c.Request().Context(), claims.UserID, req.ProductID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if !added {
		return c.JSON(http.StatusOK, map[string]string{
			"message": "product already in wishlist",
		})
	}
	return c.JSON(http.StatusCreated, map[string]string{
		"message": "product added to wishlist",
	})
}

// RemoveFromWishlist godoc
// @Summary Remove a product from the wishlist
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Param productID path string true "Product ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /me/wishlist/{productID} [delete]
func (h *CartHandler) RemoveFromWishlist(c echo.Context) error {
	claims, err := CurrentClaims(c)
	if err != nil {
		return err
	}
	productID, err := pathUUID(c, "productID")
	if err != nil {
		return err
	}
	if err := h.cartService.RemoveFromWishlist(c.Request().Context(), claims.UserID, productID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "product removed from wishlist",
	})
}
