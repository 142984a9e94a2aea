package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/dibyendu02/eMadhyam-backend/internal/domain"
)

// ErrInvalidCredentials is deliberately uniform: login failures never reveal
// whether the account exists.
var ErrInvalidCredentials = errors.New("invalid credentials")

type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber string
	Password    string
	ImageURL    string
}

type ProfileUpdate struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	DOB         *time.Time
	Gender      string
	ImageURL    string
}

type UserUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, identifier, password string) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error)
	GetProfile(ctx context.Context, userID string) (*domain.UserView, error)
	ListCustomers(ctx context.Context) ([]domain.User, error)
	DeleteAccount(ctx context.Context, userID string) error

	AddToCart(ctx context.Context, userID, productID string) (*domain.UserView, error)
	RemoveFromCart(ctx context.Context, userID, productID string) (*domain.UserView, error)
	AddToWishlist(ctx context.Context, userID, productID string) (*domain.UserView, error)
	RemoveFromWishlist(ctx context.Context, userID, productID string) (*domain.UserView, error)

	AddAddress(ctx context.Context, userID string, address domain.Address) (*domain.User, error)
	UpdateAddress(ctx context.Context, userID string, address domain.Address) (*domain.User, error)
	RemoveAddress(ctx context.Context, userID, addressID string) (*domain.User, error)
}

type userUseCase struct {
	userRepo    domain.UserRepository
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewUserUseCase(userRepo domain.UserRepository, productRepo domain.ProductRepository, logger *logrus.Logger) UserUseCase {
	return &userUseCase{
		userRepo:    userRepo,
		productRepo: productRepo,
		log:         logger,
	}
}

func (uc *userUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)

	if input.FirstName == "" {
		return nil, fmt.Errorf("first name is required: %w", domain.ErrValidation)
	}
	if input.PhoneNumber == "" {
		return nil, fmt.Errorf("phone number is required: %w", domain.ErrValidation)
	}
	if len(input.Password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters: %w", domain.ErrValidation)
	}

	// The unique indexes are the real guard; these lookups give friendlier
	// errors for the common case.
	if _, err := uc.userRepo.GetByPhone(ctx, input.PhoneNumber); err == nil {
		return nil, fmt.Errorf("phone number already registered: %w", domain.ErrDuplicate)
	}
	if input.Email != "" {
		if _, err := uc.userRepo.GetByEmail(ctx, input.Email); err == nil {
			return nil, fmt.Errorf("email already registered: %w", domain.ErrDuplicate)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("internal error processing password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:          uuid.New().String(),
		FirstName:   input.FirstName,
		LastName:    strings.TrimSpace(input.LastName),
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Password:    string(hashed),
		ImageURL:    input.ImageURL,
		Cart:        []domain.CartItem{},
		Wishlist:    []string{},
		Address:     []domain.Address{},
		IsAdmin:     false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Infof("User %s registered (phone %s)", user.ID, user.PhoneNumber)
	return user, nil
}

// Login accepts an email or a phone number as identifier; anything
// containing '@' is treated as an email.
func (uc *userUseCase) Login(ctx context.Context, identifier, password string) (*domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, fmt.Errorf("identifier and password are required: %w", domain.ErrValidation)
	}

	var user *domain.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = uc.userRepo.GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = uc.userRepo.GetByPhone(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.log.Warnf("Login failed: unknown identifier %s", identifier)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		uc.log.Warnf("Login failed: wrong password for user %s", user.ID)
		return nil, ErrInvalidCredentials
	}
	uc.log.Infof("User %s logged in", user.ID)
	return user, nil
}

func (uc *userUseCase) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return fmt.Errorf("password must be at least 8 characters: %w", domain.ErrValidation)
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect: %w", domain.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("internal error processing password: %w", err)
	}
	user.Password = string(hashed)
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return err
	}
	uc.log.Infof("User %s changed password", userID)
	return nil
}

func (uc *userUseCase) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.FirstName != "" {
		user.FirstName = update.FirstName
	}
	if update.LastName != "" {
		user.LastName = update.LastName
	}
	if update.PhoneNumber != "" {
		user.PhoneNumber = update.PhoneNumber
	}
	if update.DOB != nil {
		user.DOB = update.DOB
	}
	if update.Gender != "" {
		user.Gender = update.Gender
	}
	if update.ImageURL != "" {
		user.ImageURL = update.ImageURL
	}
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *userUseCase) GetProfile(ctx context.Context, userID string) (*domain.UserView, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.view(ctx, user)
}

func (uc *userUseCase) ListCustomers(ctx context.Context) ([]domain.User, error) {
	return uc.userRepo.ListCustomers(ctx)
}

func (uc *userUseCase) DeleteAccount(ctx context.Context, userID string) error {
	return uc.userRepo.Delete(ctx, userID)
}

func (uc *userUseCase) AddToCart(ctx context.Context, userID, productID string) (*domain.UserView, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id is required: %w", domain.ErrValidation)
	}
	// The product must exist before it may enter a cart.
	if _, err := uc.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, userID, func(user *domain.User) error {
		user.AddToCart(productID)
		return nil
	})
}

func (uc *userUseCase) RemoveFromCart(ctx context.Context, userID, productID string) (*domain.UserView, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id is required: %w", domain.ErrValidation)
	}
	return uc.mutate(ctx, userID, func(user *domain.User) error {
		user.RemoveFromCart(productID)
		return nil
	})
}

func (uc *userUseCase) AddToWishlist(ctx context.Context, userID, productID string) (*domain.UserView, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id is required: %w", domain.ErrValidation)
	}
	if _, err := uc.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	return uc.mutate(ctx, userID, func(user *domain.User) error {
		if user.InWishlist(productID) {
			return fmt.Errorf("product already in wishlist: %w", domain.ErrValidation)
		}
		user.Wishlist = append(user.Wishlist, productID)
		return nil
	})
}

func (uc *userUseCase) RemoveFromWishlist(ctx context.Context, userID, productID string) (*domain.UserView, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id is required: %w", domain.ErrValidation)
	}
	return uc.mutate(ctx, userID, func(user *domain.User) error {
		user.RemoveFromWishlist(productID)
		return nil
	})
}

func (uc *userUseCase) AddAddress(ctx context.Context, userID string, address domain.Address) (*domain.User, error) {
	if err := validateAddress(&address); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	address.ID = uuid.New().String()
	user.Address = append(user.Address, address)
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Infof("User %s added address %s", userID, address.ID)
	return user, nil
}

func (uc *userUseCase) UpdateAddress(ctx context.Context, userID string, address domain.Address) (*domain.User, error) {
	if address.ID == "" {
		return nil, fmt.Errorf("address id is required: %w", domain.ErrValidation)
	}
	if err := validateAddress(&address); err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	existing := user.AddressByID(address.ID)
	if existing == nil {
		return nil, fmt.Errorf("address %s: %w", address.ID, domain.ErrNotFound)
	}
	*existing = address
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *userUseCase) RemoveAddress(ctx context.Context, userID, addressID string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	kept := user.Address[:0]
	found := false
	for _, addr := range user.Address {
		if addr.ID == addressID {
			found = true
			continue
		}
		kept = append(kept, addr)
	}
	if !found {
		return nil, fmt.Errorf("address %s: %w", addressID, domain.ErrNotFound)
	}
	user.Address = kept
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func validateAddress(addr *domain.Address) error {
	if addr.AddressLine == "" || addr.City == "" || addr.State == "" || addr.PinCode == 0 {
		return fmt.Errorf("address line, city, state and pin code are required: %w", domain.ErrValidation)
	}
	return nil
}

// mutate loads the user, applies fn, persists, and returns the expanded
// profile view.
func (uc *userUseCase) mutate(ctx context.Context, userID string, fn func(*domain.User) error) (*domain.UserView, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(user); err != nil {
		return nil, err
	}
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return uc.view(ctx, user)
}

// view expands the cart and wishlist product references for display.
func (uc *userUseCase) view(ctx context.Context, user *domain.User) (*domain.UserView, error) {
	idSet := make(map[string]bool)
	ids := []string{}
	for _, item := range user.Cart {
		if !idSet[item.ProductID] {
			idSet[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}
	for _, id := range user.Wishlist {
		if !idSet[id] {
			idSet[id] = true
			ids = append(ids, id)
		}
	}

	products, err := uc.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	view := &domain.UserView{
		User:           *user,
		CartDetail:     []domain.CartLine{},
		WishlistDetail: []domain.Product{},
	}
	for _, item := range user.Cart {
		if product, ok := byID[item.ProductID]; ok {
			view.CartDetail = append(view.CartDetail, domain.CartLine{Product: product, Quantity: item.Quantity})
		}
	}
	for _, id := range user.Wishlist {
		if product, ok := byID[id]; ok {
			view.WishlistDetail = append(view.WishlistDetail, product)
		}
	}
	return view, nil
}
