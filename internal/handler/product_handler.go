package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"storefront/internal/errors"
	"storefront/internal/service"
)

// ProductHandler handles catalog product endpoints.
type ProductHandler struct {
	productService service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ProductRequest carries the writable product fields.
type ProductRequest struct {
	Name        string    `json:"name" validate:"required,max=255"`
	Slug        string    `json:"slug" validate:"required,max=255"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	SalePrice   float64   `json:"sale_price" validate:"omitempty,gte=0"`
	Discount    float64   `json:"discount" validate:"omitempty,gte=0,lte=100"`
	Quantity    int       `json:"quantity" validate:"gte=0"`
	Description string    `json:"description" validate:"required"`
	Images      []string  `json:"images"`
	CategoryID  uuid.UUID `json:"category_id" validate:"required"`
	BrandID     uuid.UUID `json:"brand_id" validate:"required"`
	IsFeatured  bool      `json:"is_featured"`
	IsActive    bool      `json:"is_active"`
}

func (r *ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:        r.Name,
		Slug:        r.Slug,
		Price:       r.Price,
		SalePrice:   r.SalePrice,
		Discount:    r.Discount,
		Quantity:    r.Quantity,
		Description: r.Description,
		Images:      r.Images,
		CategoryID:  r.CategoryID,
		BrandID:     r.BrandID,
		IsFeatured:  r.IsFeatured,
		IsActive:    r.IsActive,
	}
}

// CreateProduct godoc
// @Summary Create product (admin)
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProductRequest true "Product payload"
// @Success 201 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.productService.CreateProduct(c.Request().Context(), req.toInput())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, product)
}

// GetProduct godoc
// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.productService.GetProduct(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, product)
}

// ListProducts godoc
// @Summary List products
// @Tags products
// @Produce json
// @Success 200 {array} model.Product
// @Router /products [get]
func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.productService.ListProducts(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, products)
}

// UpdateProduct godoc
// @Summary Update product (admin)
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body ProductRequest true "Product payload"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.productService.UpdateProduct(c.Request().Context(), id, req.toInput())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary Delete product (admin)
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.productService.DeleteProduct(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "product deleted successfully",
	})
}
