package delivery

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dibyendu02/eMadhyam-backend/internal/domain"
	"github.com/dibyendu02/eMadhyam-backend/internal/middleware"
	"github.com/dibyendu02/eMadhyam-backend/internal/usecase"
)

type UserHandler struct {
	useCase   usecase.UserUseCase
	jwtSecret string
	log       *logrus.Logger
}

func NewUserHandler(uc usecase.UserUseCase, jwtSecret string, logger *logrus.Logger) *UserHandler {
	return &UserHandler{
		useCase:   uc,
		jwtSecret: jwtSecret,
		log:       logger,
	}
}

func (h *UserHandler) RegisterRoutes(router gin.IRouter) {
	users := router.Group("/api/user")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)

		authed := users.Group("", middleware.RequireAuth(h.jwtSecret, h.log))
		{
			authed.GET("/profile/:id", h.GetProfile)
			authed.PUT("/profile/:id", h.UpdateProfile)
			authed.PUT("/change-password/:id", h.ChangePassword)
			authed.DELETE("/:id", h.DeleteAccount)

			authed.POST("/cart/:id", h.AddToCart)
			authed.DELETE("/cart/:id/:productId", h.RemoveFromCart)
			authed.POST("/wishlist/:id", h.AddToWishlist)
			authed.DELETE("/wishlist/:id/:productId", h.RemoveFromWishlist)

			authed.POST("/address/:id", h.AddAddress)
			authed.PUT("/address/:id/:addressId", h.UpdateAddress)
			authed.DELETE("/address/:id/:addressId", h.RemoveAddress)

			admin := authed.Group("", middleware.RequireAdmin(h.log))
			{
				admin.GET("", h.ListCustomers)
			}
		}
	}
}

// requireSelf lets a user act only on their own account; admins may act on
// anyone's.
func (h *UserHandler) requireSelf(c *gin.Context) (string, bool) {
	targetID := c.Param("id")
	requestorID := c.GetString("userID")
	if targetID != requestorID && !c.GetBool("isAdmin") {
		h.log.Warnf("Authorization failed: user %s attempted to act on account %s", requestorID, targetID)
		ErrorResponse(c, http.StatusForbidden, "You are not authorized to access this account")
		return "", false
	}
	return targetID, true
}

func (h *UserHandler) Register(c *gin.Context) {
	var requestBody struct {
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		Email       string `json:"email"`
		PhoneNumber string `json:"phoneNumber"`
		Password    string `json:"password"`
		ImageURL    string `json:"imageUrl"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.useCase.Register(c.Request.Context(), usecase.RegisterInput{
		FirstName:   requestBody.FirstName,
		LastName:    requestBody.LastName,
		Email:       requestBody.Email,
		PhoneNumber: requestBody.PhoneNumber,
		Password:    requestBody.Password,
		ImageURL:    requestBody.ImageURL,
	})
	if err != nil {
		h.log.Warnf("Registration failed for phone %s: %v", requestBody.PhoneNumber, err)
		ErrorResponse(c, mapErrorToStatus(err), "Registration failed: "+err.Error())
		return
	}

	token, err := middleware.IssueToken(h.jwtSecret, user.ID, user.IsAdmin)
	if err != nil {
		h.log.Errorf("Failed to issue token for user %s: %v", user.ID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	SuccessResponse(c, http.StatusCreated, "User registered successfully", gin.H{
		"user":  user,
		"token": token,
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	var requestBody struct {
		Identifier string `json:"identifier"`
		Email      string `json:"email"`
		Password   string `json:"password"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	identifier := requestBody.Identifier
	if identifier == "" {
		identifier = requestBody.Email
	}

	user, err := h.useCase.Login(c.Request.Context(), identifier, requestBody.Password)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Login failed: "+err.Error())
		return
	}

	token, err := middleware.IssueToken(h.jwtSecret, user.ID, user.IsAdmin)
	if err != nil {
		h.log.Errorf("Failed to issue token for user %s: %v", user.ID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	SuccessResponse(c, http.StatusOK, "Login successful", gin.H{
		"user":  user,
		"token": token,
	})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := h.requireSelf(c)
	if !ok {
		return
	}

	profile, err := h.useCase.GetProfile(c.Request.Context(), userID)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve profile: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Profile retrieved successfully", profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.requireSelf(c)
	if !ok {
		return
	}

	var requestBody struct {
		FirstName   string     `json:"firstName"`
		LastName    string     `json:"lastName"`
		PhoneNumber string     `json:"phoneNumber"`
		DOB         *time.Time `json:"dob"`
		Gender      string     `json:"gender"`
		ImageURL    string     `json:"imageUrl"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.useCase.UpdateProfile(c.Request.Context(), userID, usecase.ProfileUpdate{
		FirstName:   requestBody.FirstName,
		LastName:    requestBody.LastName,
		PhoneNumber: requestBody.PhoneNumber,
		DOB:         requestBody.DOB,
		Gender:      requestBody.Gender,
		ImageURL:    requestBody.ImageURL,
	})
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update profile: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Profile updated successfully", user)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.requireSelf(c)
	if !ok {
		return
	}

	var requestBody struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if err := h.useCase.ChangePassword(c.Request.Context(), userID, requestBody.CurrentPassword, requestBody.NewPassword); err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to change password: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Password changed successfully", nil)
}

func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := h.requireSelf(c)
	if !ok {
		return
	}

	if err := h.useCase.DeleteAccount(c.Request.Context(), userID); err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to delete account: "+err.Error())
		return
	}
	h.log.Infof("Account %s deleted", userID)
	SuccessResponse(c, http.StatusOK, "Account deleted successfully", nil)
}

func (h *UserHandler) ListCustomers(c *gin.Context) {
	users, err := h.useCase.ListCustomers(c.Request.Context())
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve users")
		return
	}
	SuccessResponse(c, http.StatusOK, "Users retrieved successfully", users)
}

func (h *UserHandler) AddToCart(c *gin.Context) {
	userID, ok := h.requireSelf(c)
	if !ok {
		return
	}

	var requestBody struct {
		ProductID string `json:"productId"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	view, err := h.useCase.AddToCart(c.Request.Context(), userID, requestBody.ProductID)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to add to cart: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Product added to cart", view)
}

func (h *UserHandler) RemoveFromCart(c *gin.Context) {
	userID, ok := h.requireSelf(c)
	if !ok {
		return
	}

	view, err := h.useCase.RemoveFromCart(c.Request.Context(), userID, c.Param("productId"))
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to remove from cart: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Product removed from cart", view)
}

func (h *UserHandler) AddToWishlist(c *gin.Context) {
	userID, ok := h.requireSelf(c)
	if !ok {
		return
	}

	var requestBody struct {
		ProductID string `json:"productId"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	view, err := h.useCase.AddToWishlist(c.Request.Context(), userID, requestBody.ProductID)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to add to wishlist: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Product added to wishlist", view)
}

func (h *UserHandler) RemoveFromWishlist(c *gin.Context) {
	userID, ok := h.requireSelf(c)
	if !ok {
		return
	}

	view, err := h.useCase.RemoveFromWishlist(c.Request.Context(), userID, c.Param("productId"))
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to remove from wishlist: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Product removed from wishlist", view)
}

func (h *UserHandler) AddAddress(c *gin.Context) {
	userID, ok := h.requireSelf(c)
	if !ok {
		return
	}

	var address domain.Address
	if err := c.ShouldBindJSON(&address); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.useCase.AddAddress(c.Request.Context(), userID, address)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to add address: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusCreated, "Address added successfully", user)
}

func (h *UserHandler) UpdateAddress(c *gin.Context) {
	userID, ok := h.requireSelf(c)
	if !ok {
		return
	}

	var address domain.Address
	if err := c.ShouldBindJSON(&address); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	address.ID = c.Param("addressId")

	user, err := h.useCase.UpdateAddress(c.Request.Context(), userID, address)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update address: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Address updated successfully", user)
}

func (h *UserHandler) RemoveAddress(c *gin.Context) {
	userID, ok := h.requireSelf(c)
	if !ok {
		return
	}

	user, err := h.useCase.RemoveAddress(c.Request.Context(), userID, c.Param("addressId"))
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to remove address: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Address removed successfully", user)
}
