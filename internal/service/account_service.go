package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/internal/auth"
	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

const bcryptCost = 10

// RegisterInput carries the fields needed to create an account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UpdateUserInput is a partial name patch; nil fields are left untouched.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
}

// UpdateProfileInput is a partial profile patch; nil fields are left untouched.
type UpdateProfileInput struct {
	Age     *int
	Phone   *string
	Photo   *string
	Street  *string
	City    *string
	State   *string
	Country *string
	Zip     *string
}

// AccountService orchestrates the account lifecycle: registration, login,
// profile mutation, deactivation, soft/hard delete, restore, and role changes.
type AccountService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (token string, user *model.User, err error)
	Logout(ctx context.Context, claims *auth.Claims) error
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*model.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	Purge(ctx context.Context, id uuid.UUID) error
	UpdateRole(ctx context.Context, callerRole model.Role, targetID uuid.UUID, newRole model.Role) (*model.User, error)
}

type accountService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAccountService creates a new account service.
func NewAccountService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AccountService {
	return &accountService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Register creates an active account with a hashed password. The email must
// not belong to any account that is not soft deleted.
func (s *accountService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	email := normalizeEmail(in.Email)

	taken, err := s.userRepo.EmailInUse(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, apperrors.ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         model.Name{First: in.FirstName, Last: in.LastName},
		Email:        email,
		PasswordHash: string(hashed),
		Role:         model.RoleCustomer,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login authenticates an account and issues a bearer token. A missing email
// and a wrong password produce the same error.
func (s *accountService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindActiveByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(user.ID, string(user.Role))
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	return token, user, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *accountService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims.ID == "" {
		return apperrors.ErrInvalidToken
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.tokenStore.RevokeToken(ctx, claims.ID, ttl)
}

func (s *accountService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return user, nil
}

func (s *accountService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

// UpdateUser merges the provided name fields into the record.
func (s *accountService) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error) {
	fields := map[string]interface{}{}
	if in.FirstName != nil {
		fields["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		fields["last_name"] = *in.LastName
	}
	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, mapUserErr(err)
		}
	}
	return s.GetUser(ctx, id)
}

// UpdateProfile merges the provided profile fields into the record.
func (s *accountService) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*model.User, error) {
	fields := map[string]interface{}{}
	if in.Age != nil {
		fields["profile_age"] = *in.Age
	}
	if in.Phone != nil {
		fields["profile_phone"] = *in.Phone
	}
	if in.Photo != nil {
		fields["profile_photo"] = *in.Photo
	}
	if in.Street != nil {
		fields["profile_address_street"] = *in.Street
	}
	if in.City != nil {
		fields["profile_address_city"] = *in.City
	}
	if in.State != nil {
		fields["profile_address_state"] = *in.State
	}
	if in.Country != nil {
		fields["profile_address_country"] = *in.Country
	}
	if in.Zip != nil {
		fields["profile_address_zip"] = *in.Zip
	}
	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(ctx, id, fields); err != nil {
			return nil, mapUserErr(err)
		}
	}
	return s.GetUser(ctx, id)
}

// ChangePassword re-hashes and stores the new password after the old one verifies.
func (s *accountService) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return mapUserErr(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperrors.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return mapUserErr(s.userRepo.UpdateFields(ctx, id, map[string]interface{}{
		"password_hash": string(hashed),
	}))
}

// Deactivate flips the account inactive without marking it deleted.
func (s *accountService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return mapUserErr(s.userRepo.UpdateFields(ctx, id, map[string]interface{}{
		"is_active": false,
	}))
}

// SoftDelete marks the account inactive and stamps the deletion time.
func (s *accountService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return mapUserErr(s.userRepo.UpdateFields(ctx, id, map[string]interface{}{
		"is_active":  false,
		"deleted_at": &now,
	}))
}

// Restore reactivates a deactivated or soft-deleted account. Restoring an
// already active account is a no-op. A soft-deleted account whose email has
// since been re-registered stays deleted; restoring it would leave two live
// accounts sharing one email.
func (s *accountService) Restore(ctx context.Context, id uuid.UUID) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return mapUserErr(err)
	}
	if user.SoftDeleted() {
		taken, err := s.userRepo.EmailInUse(ctx, user.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if taken {
			return apperrors.ErrEmailTaken
		}
	}
	return mapUserErr(s.userRepo.UpdateFields(ctx, id, map[string]interface{}{
		"is_active":  true,
		"deleted_at": nil,
	}))
}

// Purge removes the record permanently. Irreversible.
func (s *accountService) Purge(ctx context.Context, id uuid.UUID) error {
	return mapUserErr(s.userRepo.Delete(ctx, id))
}

// UpdateRole changes the target account's role. Only admins may call it.
func (s *accountService) UpdateRole(ctx context.Context, callerRole model.Role, targetID uuid.UUID, newRole model.Role) (*model.User, error) {
	if callerRole != model.RoleAdmin {
		return nil, apperrors.ErrForbidden
	}
	if !newRole.Valid() {
		return nil, apperrors.ErrInvalidRole
	}
	if err := s.userRepo.UpdateFields(ctx, targetID, map[string]interface{}{
		"role": string(newRole),
	}); err != nil {
		return nil, mapUserErr(err)
	}
	return s.GetUser(ctx, targetID)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func mapUserErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrUserNotFound
	}
	return err
}
