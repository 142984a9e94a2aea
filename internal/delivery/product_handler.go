package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dibyendu02/eMadhyam-backend/internal/domain"
	"github.com/dibyendu02/eMadhyam-backend/internal/middleware"
	"github.com/dibyendu02/eMadhyam-backend/internal/usecase"
)

type ProductHandler struct {
	useCase usecase.ProductUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc usecase.ProductUseCase, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *ProductHandler) RegisterRoutes(router gin.IRouter, jwtSecret string) {
	products := router.Group("/api/product")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProductByID)
		products.GET("/category/:categoryId", h.ListProductsByCategory)

		admin := products.Group("", middleware.RequireAuth(jwtSecret, h.log), middleware.RequireAdmin(h.log))
		{
			admin.POST("", h.CreateProduct)
			admin.PUT("/:id", h.UpdateProduct)
			admin.DELETE("/:id", h.DeleteProduct)
		}
	}
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.useCase.CreateProduct(c.Request.Context(), &product)
	if err != nil {
		h.log.Errorf("Failed to create product '%s': %v", product.Name, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to create product: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "Product created successfully", created)
}

func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id := c.Param("id")

	product, err := h.useCase.GetProductByID(c.Request.Context(), id)
	if err != nil {
		h.log.Warnf("Failed to get product %s: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve product: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Product retrieved successfully", product)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.useCase.ListProducts(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list products: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve products")
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) ListProductsByCategory(c *gin.Context) {
	categoryID := c.Param("categoryId")

	products, err := h.useCase.ListProductsByCategory(c.Request.Context(), categoryID)
	if err != nil {
		h.log.Warnf("Failed to list products for category %s: %v", categoryID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve products: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", products)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var product domain.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	product.ID = c.Param("id")

	updated, err := h.useCase.UpdateProduct(c.Request.Context(), &product)
	if err != nil {
		h.log.Errorf("Failed to update product %s: %v", product.ID, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update product: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Product updated successfully", updated)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	if err := h.useCase.DeleteProduct(c.Request.Context(), id); err != nil {
		h.log.Errorf("Failed to delete product %s: %v", id, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to delete product: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Product deleted successfully", nil)
}
