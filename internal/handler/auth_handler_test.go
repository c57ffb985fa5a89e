package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/handler"
	"storefront/internal/model"
	"storefront/internal/service"
)

// MockAccountService is a mock implementation of service.AccountService.
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Register(ctx context.Context, in service.RegisterInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAccountService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*model.User), args.Error(2)
}

func (m *MockAccountService) Logout(ctx context.Context, claims *auth.Claims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}

func (m *MockAccountService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAccountService) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockAccountService) UpdateUser(ctx context.Context, id uuid.UUID, in service.UpdateUserInput) (*model.User, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAccountService) UpdateProfile(ctx context.Context, id uuid.UUID, in service.UpdateProfileInput) (*model.User, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAccountService) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	args := m.Called(ctx, id, oldPassword, newPassword)
	return args.Error(0)
}

func (m *MockAccountService) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountService) Restore(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountService) Purge(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountService) UpdateRole(ctx context.Context, callerRole model.Role, targetID uuid.UUID, newRole model.Role) (*model.User, error) {
	args := m.Called(ctx, callerRole, targetID, newRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// newClaimsContext builds a request context carrying verified claims, the way
// the auth middleware leaves it for secured handlers.
func newClaimsContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newTestContext(method, target, body)
	c.Set(handler.ClaimsContextKey, &auth.Claims{UserID: uuid.New(), Role: "customer"})
	return c, rec
}

func mustClaims(t *testing.T, c echo.Context) *auth.Claims {
	t.Helper()
	return c.Get(handler.ClaimsContextKey).(*auth.Claims)
}

func TestAuthHandler_Register(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		svc := new(MockAccountService)
		h := handler.NewAuthHandler(svc)

		svc.On("Register", mock.Anything, service.RegisterInput{
			Email:     "a@x.com",
			Password:  "Passw0rd1",
			FirstName: "Dana",
		}).Return(&model.User{ID: uuid.New(), Email: "a@x.com", Role: model.RoleCustomer, IsActive: true}, nil)

		c, rec := newTestContext(http.MethodPost, "/api/auth/register",
			`{"email":"a@x.com","password":"Passw0rd1","first_name":"Dana"}`)

		assert.NoError(t, h.Register(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "user registered successfully")
		assert.NotContains(t, rec.Body.String(), "password_hash")
		svc.AssertExpectations(t)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		svc := new(MockAccountService)
		h := handler.NewAuthHandler(svc)

		svc.On("Register", mock.Anything, mock.Anything).Return(nil, apperrors.ErrEmailTaken)

		c, _ := newTestContext(http.MethodPost, "/api/auth/register",
			`{"email":"a@x.com","password":"Passw0rd1","first_name":"Dana"}`)

		err := h.Register(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusConflict, httpErr.Code)
	})

	t.Run("short password fails validation", func(t *testing.T) {
		svc := new(MockAccountService)
		h := handler.NewAuthHandler(svc)

		c, _ := newTestContext(http.MethodPost, "/api/auth/register",
			`{"email":"a@x.com","password":"short","first_name":"Dana"}`)

		err := h.Register(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("success returns token and user", func(t *testing.T) {
		svc := new(MockAccountService)
		h := handler.NewAuthHandler(svc)

		svc.On("Login", mock.Anything, "a@x.com", "Passw0rd1").
			Return("signed-token", &model.User{ID: uuid.New(), Email: "a@x.com"}, nil)

		c, rec := newTestContext(http.MethodPost, "/api/auth/login",
			`{"email":"a@x.com","password":"Passw0rd1"}`)

		assert.NoError(t, h.Login(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "signed-token")
	})

	t.Run("bad credentials are unauthorized", func(t *testing.T) {
		svc := new(MockAccountService)
		h := handler.NewAuthHandler(svc)

		svc.On("Login", mock.Anything, "a@x.com", "wrong").
			Return("", nil, apperrors.ErrInvalidCredentials)

		c, _ := newTestContext(http.MethodPost, "/api/auth/login",
			`{"email":"a@x.com","password":"wrong"}`)

		err := h.Login(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	svc := new(MockAccountService)
	h := handler.NewAuthHandler(svc)

	claims := &auth.Claims{UserID: uuid.New(), Role: "customer"}
	svc.On("Logout", mock.Anything, claims).Return(nil)

	c, rec := newTestContext(http.MethodPost, "/api/auth/logout", "")
	c.Set(handler.ClaimsContextKey, claims)

	assert.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
