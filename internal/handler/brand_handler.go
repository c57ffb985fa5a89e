package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"storefront/internal/errors"
	"storefront/internal/service"
)

// BrandHandler handles catalog brand endpoints.
type BrandHandler struct {
	brandService service.BrandService
}

// NewBrandHandler creates a new brand handler.
func NewBrandHandler(brandService service.BrandService) *BrandHandler {
	return &BrandHandler{brandService: brandService}
}

// BrandRequest carries the writable brand fields.
type BrandRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Image       string `json:"image" validate:"required"`
	Description string `json:"description" validate:"required"`
	Website     string `json:"website" validate:"omitempty,url"`
	IsFeatured  bool   `json:"is_featured"`
}

// CreateBrand godoc
// @Summary Create brand (admin)
// @Tags brands
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BrandRequest true "Brand payload"
// @Success 201 {object} model.Brand
// @Failure 400 {object} errors.ErrorResponse
// @Router /brands [post]
func (h *BrandHandler) CreateBrand(c echo.Context) error {
	var req BrandRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	brand, err := h.brandService.CreateBrand(c.Request().Context(), service.BrandInput{
		Name:        req.Name,
		Image:       req.Image,
		Description: req.Description,
		Website:     req.Website,
		IsFeatured:  req.IsFeatured,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, brand)
}

// GetBrand godoc
// @Summary Get brand by id
// @Tags brands
// @Produce json
// @Param id path string true "Brand ID"
// @Success 200 {object} model.Brand
// @Failure 404 {object} errors.ErrorResponse
// @Router /brands/{id} [get]
func (h *BrandHandler) GetBrand(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	brand, err := h.brandService.GetBrand(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, brand)
}

// ListBrands godoc
// @Summary List brands
// @Tags brands
// @Produce json
// @Success 200 {array} model.Brand
// @Router /brands [get]
func (h *BrandHandler) ListBrands(c echo.Context) error {
	brands, err := h.brandService.ListBrands(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, brands)
}

// UpdateBrand godoc
// @Summary Update brand (admin)
// @Tags brands
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Brand ID"
// @Param request body BrandRequest true "Brand payload"
// @Success 200 {object} model.Brand
// @Failure 404 {object} errors.ErrorResponse
// @Router /brands/{id} [put]
func (h *BrandHandler) UpdateBrand(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	var req BrandRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	brand, err := h.brandService.UpdateBrand(c.Request().Context(), id, service.BrandInput{
		Name:        req.Name,
		Image:       req.Image,
		Description: req.Description,
		Website:     req.Website,
		IsFeatured:  req.IsFeatured,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, brand)
}

// DeleteBrand godoc
// @Summary Delete brand (admin)
// @Tags brands
// @Produce json
// @Security BearerAuth
// @Param id path string true "Brand ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /brands/{id} [delete]
func (h *BrandHandler) DeleteBrand(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	if err := h.brandService.DeleteBrand(c.Request().Context(), id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "brand deleted successfully",
	})
}
