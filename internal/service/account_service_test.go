package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindActiveByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) EmailInUse(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) ReplaceCart(ctx context.Context, userID uuid.UUID, items []model.CartItem) error {
	args := m.Called(ctx, userID, items)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveCartItem(ctx context.Context, userID, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ClearCart(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) FindCart(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartItem), args.Error(1)
}

func (m *MockUserRepository) AddWishlistItem(ctx context.Context, item *model.WishlistItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveWishlistItem(ctx context.Context, userID, productID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID, productID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) HasWishlistItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) FindWishlist(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WishlistItem), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func newAccountService(repo *MockUserRepository, store *MockTokenStore) AccountService {
	return NewAccountService(repo, auth.NewJWTService("test-secret"), store)
}

func TestAccountService_Register(t *testing.T) {
	tests := []struct {
		name       string
		input      RegisterInput
		emailTaken bool
		wantErr    error
	}{
		{
			name: "success",
			input: RegisterInput{
				Email:     "New@Example.com",
				Password:  "Passw0rd1",
				FirstName: "Dana",
			},
		},
		{
			name: "duplicate email",
			input: RegisterInput{
				Email:     "taken@example.com",
				Password:  "Passw0rd1",
				FirstName: "Dana",
			},
			emailTaken: true,
			wantErr:    apperrors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			store := new(MockTokenStore)
			svc := newAccountService(repo, store)

			repo.On("EmailInUse", mock.Anything, mock.AnythingOfType("string")).Return(tt.emailTaken, nil)
			if !tt.emailTaken {
				repo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			}

			user, err := svc.Register(context.Background(), tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "new@example.com", user.Email, "email is case-normalized")
			assert.Equal(t, model.RoleCustomer, user.Role)
			assert.True(t, user.IsActive)
			assert.Nil(t, user.DeletedAt)
			assert.NotEqual(t, tt.input.Password, user.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.input.Password)))
			repo.AssertExpectations(t)
		})
	}
}

func TestAccountService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Passw0rd1"), bcryptCost)
	assert.NoError(t, err)

	existing := &model.User{
		ID:           uuid.New(),
		Email:        "a@x.com",
		PasswordHash: string(hashed),
		Role:         model.RoleCustomer,
		IsActive:     true,
	}

	tests := []struct {
		name     string
		email    string
		password string
		found    bool
		wantErr  error
	}{
		{name: "success", email: "a@x.com", password: "Passw0rd1", found: true},
		{name: "wrong password", email: "a@x.com", password: "wrong", found: true, wantErr: apperrors.ErrInvalidCredentials},
		{name: "unknown email", email: "missing@x.com", password: "Passw0rd1", wantErr: apperrors.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			store := new(MockTokenStore)
			svc := newAccountService(repo, store)

			if tt.found {
				repo.On("FindActiveByEmail", mock.Anything, tt.email).Return(existing, nil)
			} else {
				repo.On("FindActiveByEmail", mock.Anything, tt.email).Return(nil, gorm.ErrRecordNotFound)
			}

			token, user, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, existing.ID, user.ID)

			// the issued token must verify and carry the user id
			claims, err := auth.NewJWTService("test-secret").Verify(token)
			assert.NoError(t, err)
			assert.Equal(t, existing.ID, claims.UserID)
		})
	}
}

func TestAccountService_ChangePassword(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcryptCost)
	assert.NoError(t, err)

	userID := uuid.New()
	existing := &model.User{ID: userID, PasswordHash: string(hashed)}

	t.Run("wrong old password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAccountService(repo, new(MockTokenStore))

		repo.On("FindByID", mock.Anything, userID).Return(existing, nil)

		err := svc.ChangePassword(context.Background(), userID, "not-it", "new-password")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success stores a new hash", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAccountService(repo, new(MockTokenStore))

		repo.On("FindByID", mock.Anything, userID).Return(existing, nil)
		repo.On("UpdateFields", mock.Anything, userID, mock.MatchedBy(func(fields map[string]interface{}) bool {
			stored, ok := fields["password_hash"].(string)
			if !ok {
				return false
			}
			return bcrypt.CompareHashAndPassword([]byte(stored), []byte("new-password")) == nil
		})).Return(nil)

		err := svc.ChangePassword(context.Background(), userID, "old-password", "new-password")
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestAccountService_Lifecycle(t *testing.T) {
	userID := uuid.New()

	t.Run("soft delete stamps deletion time", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAccountService(repo, new(MockTokenStore))

		repo.On("UpdateFields", mock.Anything, userID, mock.MatchedBy(func(fields map[string]interface{}) bool {
			active, hasActive := fields["is_active"].(bool)
			deletedAt, hasDeleted := fields["deleted_at"].(*time.Time)
			return hasActive && !active && hasDeleted && deletedAt != nil
		})).Return(nil)

		assert.NoError(t, svc.SoftDelete(context.Background(), userID))
		repo.AssertExpectations(t)
	})

	t.Run("restore clears deletion and re-activates, idempotently", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAccountService(repo, new(MockTokenStore))

		// deactivated, not soft deleted: its email is still visible and unique
		repo.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID:    userID,
			Email: "a@x.com",
		}, nil)
		repo.On("UpdateFields", mock.Anything, userID, mock.MatchedBy(func(fields map[string]interface{}) bool {
			active, hasActive := fields["is_active"].(bool)
			deletedAt, hasDeleted := fields["deleted_at"]
			return hasActive && active && hasDeleted && deletedAt == nil
		})).Return(nil).Twice()

		assert.NoError(t, svc.Restore(context.Background(), userID))
		assert.NoError(t, svc.Restore(context.Background(), userID))
		repo.AssertNotCalled(t, "EmailInUse", mock.Anything, mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("restore of a soft-deleted account re-checks the email", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAccountService(repo, new(MockTokenStore))

		deletedAt := time.Now()
		repo.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID:        userID,
			Email:     "a@x.com",
			DeletedAt: &deletedAt,
		}, nil)
		repo.On("EmailInUse", mock.Anything, "a@x.com").Return(false, nil)
		repo.On("UpdateFields", mock.Anything, userID, mock.Anything).Return(nil)

		assert.NoError(t, svc.Restore(context.Background(), userID))
		repo.AssertExpectations(t)
	})

	t.Run("restore refused when the email was re-registered", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAccountService(repo, new(MockTokenStore))

		deletedAt := time.Now()
		repo.On("FindByID", mock.Anything, userID).Return(&model.User{
			ID:        userID,
			Email:     "a@x.com",
			DeletedAt: &deletedAt,
		}, nil)
		repo.On("EmailInUse", mock.Anything, "a@x.com").Return(true, nil)

		err := svc.Restore(context.Background(), userID)
		assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
		repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("restore of a missing user reports not found", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAccountService(repo, new(MockTokenStore))

		repo.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)

		err := svc.Restore(context.Background(), userID)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("deactivate leaves deleted_at untouched", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAccountService(repo, new(MockTokenStore))

		repo.On("UpdateFields", mock.Anything, userID, mock.MatchedBy(func(fields map[string]interface{}) bool {
			_, touchesDeleted := fields["deleted_at"]
			active, hasActive := fields["is_active"].(bool)
			return hasActive && !active && !touchesDeleted
		})).Return(nil)

		assert.NoError(t, svc.Deactivate(context.Background(), userID))
		repo.AssertExpectations(t)
	})

	t.Run("purge of a missing user reports not found", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAccountService(repo, new(MockTokenStore))

		repo.On("Delete", mock.Anything, userID).Return(gorm.ErrRecordNotFound)

		err := svc.Purge(context.Background(), userID)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestAccountService_UpdateRole(t *testing.T) {
	targetID := uuid.New()

	t.Run("non-admin caller is forbidden", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAccountService(repo, new(MockTokenStore))

		_, err := svc.UpdateRole(context.Background(), model.RoleCustomer, targetID, model.RoleVendor)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		repo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAccountService(repo, new(MockTokenStore))

		_, err := svc.UpdateRole(context.Background(), model.RoleAdmin, targetID, model.Role("superuser"))
		assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
	})

	t.Run("admin changes role", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAccountService(repo, new(MockTokenStore))

		repo.On("UpdateFields", mock.Anything, targetID, map[string]interface{}{
			"role": "vendor",
		}).Return(nil)
		repo.On("FindByID", mock.Anything, targetID).Return(&model.User{
			ID:   targetID,
			Role: model.RoleVendor,
		}, nil)

		user, err := svc.UpdateRole(context.Background(), model.RoleAdmin, targetID, model.RoleVendor)
		assert.NoError(t, err)
		assert.Equal(t, model.RoleVendor, user.Role)
		repo.AssertExpectations(t)
	})
}

func TestAccountService_UpdateProfile(t *testing.T) {
	userID := uuid.New()

	t.Run("merges only provided fields", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAccountService(repo, new(MockTokenStore))

		age := 30
		city := "Lisbon"
		repo.On("UpdateFields", mock.Anything, userID, map[string]interface{}{
			"profile_age":          30,
			"profile_address_city": "Lisbon",
		}).Return(nil)
		repo.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)

		_, err := svc.UpdateProfile(context.Background(), userID, UpdateProfileInput{
			Age:  &age,
			City: &city,
		})
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("missing user maps to not found", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := newAccountService(repo, new(MockTokenStore))

		phone := "+15551234567"
		repo.On("UpdateFields", mock.Anything, userID, mock.Anything).Return(gorm.ErrRecordNotFound)

		_, err := svc.UpdateProfile(context.Background(), userID, UpdateProfileInput{Phone: &phone})
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestAccountService_Logout(t *testing.T) {
	repo := new(MockUserRepository)
	store := new(MockTokenStore)
	svc := newAccountService(repo, store)

	jwtSvc := auth.NewJWTService("test-secret")
	token, err := jwtSvc.Issue(uuid.New(), string(model.RoleCustomer))
	assert.NoError(t, err)
	claims, err := jwtSvc.Verify(token)
	assert.NoError(t, err)

	store.On("RevokeToken", mock.Anything, claims.ID, mock.AnythingOfType("time.Duration")).Return(nil)

	assert.NoError(t, svc.Logout(context.Background(), claims))
	store.AssertExpectations(t)
}
