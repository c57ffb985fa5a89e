package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role enumerates the access levels an account can hold.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCustomer, RoleVendor:
		return true
	}
	return false
}

// Name holds the user's first and optional last name.
type Name struct {
	First string `json:"first" gorm:"column:first_name;size:50;not null"`
	Last  string `json:"last,omitempty" gorm:"column:last_name;size:50"`
}

// Address is the optional postal address inside a profile.
type Address struct {
	Street  string `json:"street,omitempty" gorm:"size:255"`
	City    string `json:"city,omitempty" gorm:"size:100"`
	State   string `json:"state,omitempty" gorm:"size:100"`
	Country string `json:"country,omitempty" gorm:"size:100"`
	Zip     string `json:"zip,omitempty" gorm:"size:20"`
}

// Profile holds optional account details beyond identity.
type Profile struct {
	Age     int     `json:"age,omitempty"`
	Phone   string  `json:"phone,omitempty" gorm:"size:20"`
	Photo   string  `json:"photo,omitempty" gorm:"size:255"`
	Address Address `json:"address" gorm:"embedded;embeddedPrefix:address_"`
}

// User is the identity root: account state, profile, and the embedded
// wishlist and cart collections.
type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	Name         Name           `json:"name" gorm:"embedded"`
	Email        string         `json:"email" gorm:"index;size:255;not null"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role           `json:"role" gorm:"size:20;default:'customer'"`
	IsActive     bool           `json:"is_active"`
	DeletedAt    *time.Time     `json:"deleted_at,omitempty"` // non-nil means soft deleted
	Profile      Profile        `json:"profile" gorm:"embedded;embeddedPrefix:profile_"`
	Wishlist     []WishlistItem `json:"wishlist" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Cart         []CartItem     `json:"cart" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// FullName joins first and last name, skipping an empty last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.Name.First + " " + u.Name.Last)
}

// SoftDeleted reports whether the account carries a deletion timestamp.
func (u *User) SoftDeleted() bool {
	return u.DeletedAt != nil
}

// WishlistItem is one product reference in a user's wishlist. The unique
// index keeps a product from appearing twice for the same user.
type WishlistItem struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UserID    uuid.UUID `json:"-" gorm:"type:char(36);uniqueIndex:idx_wishlist_user_product;not null"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:char(36);uniqueIndex:idx_wishlist_user_product;not null"`
	AddedAt   time.Time `json:"added_at"`
}

// CartItem is one cart line. At most one line per product per user.
type CartItem struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UserID    uuid.UUID `json:"-" gorm:"type:char(36);uniqueIndex:idx_cart_user_product;not null"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:char(36);uniqueIndex:idx_cart_user_product;not null"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	AddedAt   time.Time `json:"added_at"`
}
