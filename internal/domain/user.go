package domain

import (
	"context"
	"time"
)

// Address is one entry of a user's address book. The ID is a stable
// identifier assigned when the address is added; orders snapshot the whole
// struct by value, so later edits to the book never touch existing orders.
type Address struct {
	ID                 string `json:"_id" bson:"_id"`
	AddressLine        string `json:"addressLine" bson:"addressLine"`
	City               string `json:"city" bson:"city"`
	State              string `json:"state" bson:"state"`
	PinCode            int    `json:"pinCode" bson:"pinCode"`
	AlternativeAddress string `json:"alternativeAddress,omitempty" bson:"alternativeAddress,omitempty"`
	AlternativeContact string `json:"alternativeContact,omitempty" bson:"alternativeContact,omitempty"`
}

// CartItem is the single cart representation: productId -> quantity.
// Legacy carts stored as bare product-id arrays are converted once at
// startup, never shape-sniffed at read time.
type CartItem struct {
	ProductID string `json:"product" bson:"product"`
	Quantity  int    `json:"quantity" bson:"quantity"`
}

type User struct {
	ID              string     `json:"_id" bson:"_id,omitempty"`
	FirstName       string     `json:"firstName" bson:"firstName"`
	LastName        string     `json:"lastName,omitempty" bson:"lastName,omitempty"`
	Email           string     `json:"email,omitempty" bson:"email,omitempty"`
	IsEmailVerified bool       `json:"isEmailVerified" bson:"isEmailVerified"`
	PhoneNumber     string     `json:"phoneNumber" bson:"phoneNumber"`
	Password        string     `json:"-" bson:"password"`
	Cart            []CartItem `json:"cart" bson:"cart"`
	Wishlist        []string   `json:"wishlist" bson:"wishlist"`
	ImageURL        string     `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	DOB             *time.Time `json:"dob,omitempty" bson:"dob,omitempty"`
	Gender          string     `json:"gender,omitempty" bson:"gender,omitempty"`
	Address         []Address  `json:"address" bson:"address"`
	IsAdmin         bool       `json:"isAdmin" bson:"isAdmin"`
	CreatedAt       time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// AddressByID returns a pointer into the user's address book, or nil.
func (u *User) AddressByID(id string) *Address {
	for i := range u.Address {
		if u.Address[i].ID == id {
			return &u.Address[i]
		}
	}
	return nil
}

// AddToCart increments the quantity for productID, appending a new entry the
// first time.
func (u *User) AddToCart(productID string) {
	for i := range u.Cart {
		if u.Cart[i].ProductID == productID {
			u.Cart[i].Quantity++
			return
		}
	}
	u.Cart = append(u.Cart, CartItem{ProductID: productID, Quantity: 1})
}

// RemoveFromCart decrements the quantity for productID, dropping the entry
// when it reaches zero. Removing a product that is not in the cart is a
// no-op.
func (u *User) RemoveFromCart(productID string) {
	for i := range u.Cart {
		if u.Cart[i].ProductID == productID {
			if u.Cart[i].Quantity > 1 {
				u.Cart[i].Quantity--
			} else {
				u.Cart = append(u.Cart[:i], u.Cart[i+1:]...)
			}
			return
		}
	}
}

// ClearCartProducts drops every cart entry whose product is in ids,
// regardless of quantity. Called after those products were turned into an
// order.
func (u *User) ClearCartProducts(ids []string) {
	purchased := make(map[string]bool, len(ids))
	for _, id := range ids {
		purchased[id] = true
	}
	kept := u.Cart[:0]
	for _, item := range u.Cart {
		if !purchased[item.ProductID] {
			kept = append(kept, item)
		}
	}
	u.Cart = kept
}

// InWishlist reports whether productID is already wished for.
func (u *User) InWishlist(productID string) bool {
	for _, id := range u.Wishlist {
		if id == productID {
			return true
		}
	}
	return false
}

// RemoveFromWishlist drops productID from the wishlist if present.
func (u *User) RemoveFromWishlist(productID string) {
	kept := u.Wishlist[:0]
	for _, id := range u.Wishlist {
		if id != productID {
			kept = append(kept, id)
		}
	}
	u.Wishlist = kept
}

// CartLine and UserView shape the profile response with cart and wishlist
// products expanded.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type UserView struct {
	User
	CartDetail     []CartLine `json:"cartDetail"`
	WishlistDetail []Product  `json:"wishlistDetail"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByPhone(ctx context.Context, phone string) (*User, error)
	ListCustomers(ctx context.Context) ([]User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	// MigrateLegacyCarts rewrites carts persisted as bare product-id arrays
	// into the CartItem representation. Returns the number of users touched.
	MigrateLegacyCarts(ctx context.Context) (int64, error)
}
