package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"storefront/internal/model"
)

// UserRepository defines persistence operations for the user aggregate,
// including its embedded wishlist and cart collections.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindActiveByEmail(ctx context.Context, email string) (*model.User, error)
	EmailInUse(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *model.User) error
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]model.User, error)

	ReplaceCart(ctx context.Context, userID uuid.UUID, items []model.CartItem) error
	RemoveCartItem(ctx context.Context, userID, productID uuid.UUID) (int64, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
	FindCart(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error)

	AddWishlistItem(ctx context.Context, item *model.WishlistItem) error
	RemoveWishlistItem(ctx context.Context, userID, productID uuid.UUID) (int64, error)
	HasWishlistItem(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	FindWishlist(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByID loads the full aggregate, wishlist and cart included.
func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Preload("Wishlist").
		Preload("Cart").
		First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindActiveByEmail resolves an email among accounts that are not soft
// deleted. Soft-deleted accounts are invisible to login and registration.
func (r *userRepository) FindActiveByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("email = ? AND deleted_at IS NULL", email).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) EmailInUse(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("email = ? AND deleted_at IS NULL", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit("Wishlist", "Cart").Save(user).Error
}

// UpdateFields applies a partial column patch to the user row.
func (r *userRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the record permanently, cart and wishlist rows with it.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.WishlistItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// ReplaceCart swaps the cart wholesale: delete all lines, insert the new
// ones, inside one transaction. Concurrent replaces last-write-win at the
// cart level; there is no per-user version check.
func (r *userRepository) ReplaceCart(ctx context.Context, userID uuid.UUID, items []model.CartItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *userRepository) RemoveCartItem(ctx context.Context, userID, productID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *userRepository) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}

func (r *userRepository) FindCart(ctx context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *userRepository) AddWishlistItem(ctx context.Context, item *model.WishlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *userRepository) RemoveWishlistItem(ctx context.Context, userID, productID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.WishlistItem{})
	return res.RowsAffected, res.Error
}

func (r *userRepository) HasWishlistItem(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) FindWishlist(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error) {
	var items []model.WishlistItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
