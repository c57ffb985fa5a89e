package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrEmailTaken is returned when registering an email that an active account already uses.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken is returned when a bearer token fails verification or has expired.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrMalformedToken is returned when the Authorization header lacks the bearer scheme.
	ErrMalformedToken = errors.New("malformed bearer token")
	// ErrForbidden is returned when the caller's role does not permit the operation.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrUserNotFound is returned when a user id or email resolves to no record.
	ErrUserNotFound = errors.New("user not found")
	// ErrProductNotFound is returned when a product is not found.
	ErrProductNotFound = errors.New("product not found")
	// ErrBrandNotFound is returned when a brand is not found.
	ErrBrandNotFound = errors.New("brand not found")
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrInvalidQuantity is returned when a cart line quantity is below 1.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// ErrDuplicateCartLine is returned when a cart payload lists a product twice.
	ErrDuplicateCartLine = errors.New("duplicate product in cart")
	// ErrNotInWishlist is returned when removing a product the wishlist does not hold.
	ErrNotInWishlist = errors.New("product not in wishlist")
	// ErrInvalidRole is returned when a role value is outside the known set.
	ErrInvalidRole = errors.New("invalid role")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_TOKEN")
	case errors.Is(err, ErrMalformedToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "MALFORMED_TOKEN")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrProductNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PRODUCT_NOT_FOUND")
	case errors.Is(err, ErrBrandNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "BRAND_NOT_FOUND")
	case errors.Is(err, ErrCategoryNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CATEGORY_NOT_FOUND")
	case errors.Is(err, ErrNotInWishlist):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_IN_WISHLIST")
	case errors.Is(err, ErrInvalidQuantity):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_QUANTITY")
	case errors.Is(err, ErrDuplicateCartLine):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "DUPLICATE_CART_LINE")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ROLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
