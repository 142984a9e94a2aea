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

type OrderHandler struct {
	useCase usecase.OrderUseCase
	log     *logrus.Logger
}

func NewOrderHandler(uc usecase.OrderUseCase, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *OrderHandler) RegisterRoutes(router gin.IRouter, jwtSecret string) {
	orders := router.Group("/api/order")
	{
		// Gateway webhooks authenticate by signature, not bearer token.
		orders.POST("/payment/webhook", h.PaymentWebhook)

		authed := orders.Group("", middleware.RequireAuth(jwtSecret, h.log))
		{
			authed.POST("", h.CreateOrder)
			authed.GET("/:id", h.GetOrderByID)
			authed.GET("/user/:userId", h.ListUserOrders)
			authed.POST("/payment/verify", h.VerifyPayment)
			authed.DELETE("/:id", h.DeleteOrder)

			admin := authed.Group("", middleware.RequireAdmin(h.log))
			{
				admin.GET("", h.ListAllOrders)
				admin.PUT("/:id", h.UpdateOrderStatus)
			}
		}
	}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID := c.GetString("userID")

	var requestBody struct {
		Products      []domain.OrderItem `json:"products"`
		PaymentMethod string             `json:"paymentMethod"`
		AddressID     string             `json:"addressId"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		h.log.Errorf("Failed to bind JSON for create order (user %s): %v", userID, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	h.log.Infof("Processing create order request for user %s (%d items, %s)",
		userID, len(requestBody.Products), requestBody.PaymentMethod)

	order, err := h.useCase.CreateOrder(c.Request.Context(), userID, requestBody.Products, requestBody.PaymentMethod, requestBody.AddressID)
	if err != nil {
		h.log.Errorf("Failed to create order for user %s: %v", userID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to create order: "+err.Error())
		return
	}

	h.log.Infof("Order %s created successfully for user %s", order.ID, userID)
	SuccessResponse(c, http.StatusCreated, "Order created successfully", order)
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	id := c.Param("id")
	requestorID := c.GetString("userID")

	order, err := h.useCase.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get order %s (requested by user %s): %v", id, requestorID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve order: "+err.Error())
		return
	}

	if order.UserID != requestorID && !c.GetBool("isAdmin") {
		h.log.Warnf("Authorization failed: user %s attempted to access order %s owned by user %s", requestorID, id, order.UserID)
		ErrorResponse(c, http.StatusForbidden, "You are not authorized to view this order")
		return
	}

	SuccessResponse(c, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	orders, err := h.useCase.ListAllOrders(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list orders: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve orders")
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) ListUserOrders(c *gin.Context) {
	targetUserID := c.Param("userId")
	requestorID := c.GetString("userID")

	if targetUserID != requestorID && !c.GetBool("isAdmin") {
		h.log.Warnf("Authorization failed: user %s attempted to list orders of user %s", requestorID, targetUserID)
		ErrorResponse(c, http.StatusForbidden, "You are not authorized to view these orders")
		return
	}

	orders, err := h.useCase.ListUserOrders(c.Request.Context(), targetUserID)
	if err != nil {
		h.log.Errorf("Failed to list orders for user %s: %v", targetUserID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve orders")
		return
	}
	SuccessResponse(c, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id := c.Param("id")

	var updateRequest struct {
		Status       *domain.OrderStatus `json:"status"`
		DeliveryDate *time.Time          `json:"deliveryDate"`
	}
	if err := c.ShouldBindJSON(&updateRequest); err != nil {
		h.log.Warnf("Failed to bind JSON for update order %s: %v", id, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if updateRequest.Status == nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: 'status' field is required")
		return
	}

	order, err := h.useCase.UpdateOrderStatus(c.Request.Context(), id, *updateRequest.Status, updateRequest.DeliveryDate)
	if err != nil {
		h.log.Errorf("Failed to update status for order %s: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update order status: "+err.Error())
		return
	}

	h.log.Infof("Order %s status updated to '%s'", id, order.Status)
	SuccessResponse(c, http.StatusOK, "Order status updated successfully", order)
}

func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id := c.Param("id")
	requestorID := c.GetString("userID")

	order, err := h.useCase.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve order: "+err.Error())
		return
	}
	if order.UserID != requestorID && !c.GetBool("isAdmin") {
		h.log.Warnf("Authorization failed: user %s attempted to delete order %s owned by user %s", requestorID, id, order.UserID)
		ErrorResponse(c, http.StatusForbidden, "You are not authorized to delete this order")
		return
	}

	if err := h.useCase.DeleteOrder(c.Request.Context(), id); err != nil {
		h.log.Errorf("Failed to delete order %s: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to delete order: "+err.Error())
		return
	}

	h.log.Infof("Order %s deleted by user %s", id, requestorID)
	SuccessResponse(c, http.StatusOK, "Order deleted successfully", nil)
}

func (h *OrderHandler) VerifyPayment(c *gin.Context) {
	var requestBody struct {
		RazorpayOrderID   string `json:"razorpay_order_id"`
		RazorpayPaymentID string `json:"razorpay_payment_id"`
		RazorpaySignature string `json:"razorpay_signature"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if requestBody.RazorpayOrderID == "" || requestBody.RazorpayPaymentID == "" || requestBody.RazorpaySignature == "" {
		ErrorResponse(c, http.StatusBadRequest, "razorpay_order_id, razorpay_payment_id and razorpay_signature are required")
		return
	}

	order, err := h.useCase.VerifyPayment(c.Request.Context(), requestBody.RazorpayOrderID, requestBody.RazorpayPaymentID, requestBody.RazorpaySignature)
	if err != nil {
		h.log.Warnf("Payment verification failed for gateway order %s: %v", requestBody.RazorpayOrderID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Payment verification failed: "+err.Error())
		return
	}

	h.log.Infof("Payment verified for order %s", order.ID)
	SuccessResponse(c, http.StatusOK, "Payment verified successfully", order)
}

func (h *OrderHandler) PaymentWebhook(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.log.Errorf("Failed to read webhook body: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Failed to read request body")
		return
	}

	signature := c.GetHeader("x-razorpay-signature")
	if signature == "" {
		h.log.Warn("Webhook received without x-razorpay-signature header")
		ErrorResponse(c, http.StatusBadRequest, "Missing signature header")
		return
	}

	if err := h.useCase.HandleWebhook(c.Request.Context(), body, signature); err != nil {
		h.log.Warnf("Webhook processing failed: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Webhook processing failed")
		return
	}

	SuccessResponse(c, http.StatusOK, "Webhook processed", nil)
}
