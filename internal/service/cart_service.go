package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "storefront/internal/errors"
	"storefront/internal/model"
	"storefront/internal/repository"
)

// CartLine is one requested cart entry in a wholesale replace.
type CartLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// CartService manages the embedded cart and wishlist collections of a user.
type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)
	SetCart(ctx context.Context, userID uuid.UUID, lines []CartLine) ([]model.CartItem, error)
	RemoveCartItem(ctx context.Context, userID, productID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error

	GetWishlist(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error)
	AddToWishlist(ctx context.Context, userID, productID uuid.UUID) (added bool, err error)
	RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) error
}

type cartService struct {
	userRepo repository.UserRepository
}

// NewCartService creates a new cart service.
func NewCartService(userRepo repository.UserRepository) CartService {
	return &cartService{userRepo: userRepo}
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.userRepo.FindCart(ctx, userID)
}

// SetCart replaces the cart wholesale. Every quantity must be at least 1 and
// a product may appear only once. Two concurrent replaces last-write-win;
// that matches the whole-document semantics this service preserves.
func (s *cartService) SetCart(ctx context.Context, userID uuid.UUID, lines []CartLine) ([]model.CartItem, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(lines))
	now := time.Now()
	items := make([]model.CartItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, apperrors.ErrInvalidQuantity
		}
		if _, dup := seen[line.ProductID]; dup {
			return nil, apperrors.ErrDuplicateCartLine
		}
		seen[line.ProductID] = struct{}{}
		items = append(items, model.CartItem{
			UserID:    userID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			AddedAt:   now,
		})
	}

	if err := s.userRepo.ReplaceCart(ctx, userID, items); err != nil {
		return nil, err
	}
	return s.userRepo.FindCart(ctx, userID)
}

func (s *cartService) RemoveCartItem(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}
	_, err := s.userRepo.RemoveCartItem(ctx, userID, productID)
	return err
}

func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}
	return s.userRepo.ClearCart(ctx, userID)
}

func (s *cartService) GetWishlist(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.userRepo.FindWishlist(ctx, userID)
}

// AddToWishlist is idempotent: adding a product already present changes
// nothing and reports added=false.
func (s *cartService) AddToWishlist(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return false, err
	}

	present, err := s.userRepo.HasWishlistItem(ctx, userID, productID)
	if err != nil {
		return false, err
	}
	if present {
		return false, nil
	}

	item := &model.WishlistItem{
		UserID:    userID,
		ProductID: productID,
		AddedAt:   time.Now(),
	}
	if err := s.userRepo.AddWishlistItem(ctx, item); err != nil {
		// a concurrent add can hit the unique index; still an idempotent no-op
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *cartService) RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.ensureUser(ctx, userID); err != nil {
		return err
	}
	removed, err := s.userRepo.RemoveWishlistItem(ctx, userID, productID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return apperrors.ErrNotInWishlist
	}
	return nil
}

func (s *cartService) ensureUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return mapUserErr(err)
	}
	return nil
}
