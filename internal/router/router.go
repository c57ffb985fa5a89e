package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/handler"
	"storefront/internal/model"
	"storefront/internal/observability"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	cartHandler *handler.CartHandler,
	productHandler *handler.ProductHandler,
	brandHandler *handler.BrandHandler,
	categoryHandler *handler.CategoryHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(observability.HTTPMetricsMiddleware())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Catalog reads are public
	api.GET("/products", productHandler.ListProducts)
	api.GET("/products/:id", productHandler.GetProduct)
	api.GET("/brands", brandHandler.ListBrands)
	api.GET("/brands/:id", brandHandler.GetBrand)
	api.GET("/categories", categoryHandler.ListCategories)
	api.GET("/categories/:id", categoryHandler.GetCategory)

	// Secured routes (require a valid, unrevoked bearer token)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, tokenString string) (interface{}, error) {
			claims, err := jwtService.Verify(tokenString)
			if err != nil {
				return nil, err
			}
			revoked, err := tokenStore.IsTokenRevoked(c.Request().Context(), claims.ID)
			if err != nil {
				return nil, err
			}
			if revoked {
				return nil, apperrors.ErrInvalidToken
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			// a header that does not even carry the bearer scheme is reported
			// as malformed; anything that parsed but failed verification is invalid
			mapped := apperrors.ErrInvalidToken
			if _, perr := auth.ParseBearer(c.Request().Header.Get(echo.HeaderAuthorization)); perr != nil {
				mapped = perr
			}
			httpErr := apperrors.MapErrorToHTTP(mapped)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		},
	}))

	secured.POST("/auth/logout", authHandler.Logout)

	secured.GET("/me", userHandler.Me)
	secured.PUT("/me", userHandler.UpdateMe)
	secured.DELETE("/me", userHandler.DeleteMe)
	secured.PUT("/me/profile", userHandler.UpdateProfile)
	secured.PUT("/me/password", userHandler.ChangePassword)
	secured.POST("/me/deactivate", userHandler.DeactivateMe)

	secured.GET("/me/wishlist", cartHandler.GetWishlist)
	secured.POST("/me/wishlist", cartHandler.AddToWishlist)
	secured.DELETE("/me/wishlist/:productID", cartHandler.RemoveFromWishlist)

	secured.GET("/me/cart", cartHandler.GetCart)
	secured.PUT("/me/cart", cartHandler.SetCart)
	secured.DELETE("/me/cart", cartHandler.ClearCart)
	secured.DELETE("/me/cart/:productID", cartHandler.RemoveCartItem)

	// Admin routes
	admin := secured.Group("", RequireAdmin)

	admin.GET("/users", userHandler.ListUsers)
	admin.GET("/users/:id", userHandler.GetUser)
	admin.PUT("/users/:id/role", userHandler.UpdateRole)
	admin.POST("/users/:id/restore", userHandler.RestoreUser)
	admin.DELETE("/users/:id", userHandler.PurgeUser)

	admin.POST("/products", productHandler.CreateProduct)
	admin.PUT("/products/:id", productHandler.UpdateProduct)
	admin.DELETE("/products/:id", productHandler.DeleteProduct)

	admin.POST("/brands", brandHandler.CreateBrand)
	admin.PUT("/brands/:id", brandHandler.UpdateBrand)
	admin.DELETE("/brands/:id", brandHandler.DeleteBrand)

	admin.POST("/categories", categoryHandler.CreateCategory)
	admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
	admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)
}

// RequireAdmin rejects callers whose token does not carry the admin role.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(handler.ClaimsContextKey).(*auth.Claims)
		if !ok {
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrInvalidToken)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		if model.Role(claims.Role) != model.RoleAdmin {
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrForbidden)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		return next(c)
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
