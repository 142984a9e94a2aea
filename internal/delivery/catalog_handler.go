package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dibyendu02/eMadhyam-backend/internal/domain"
	"github.com/dibyendu02/eMadhyam-backend/internal/middleware"
	"github.com/dibyendu02/eMadhyam-backend/internal/usecase"
)

// TaxonomyHandler serves one classification collection; mount one per kind
// (category, color, plant type, product type).
type TaxonomyHandler struct {
	useCase usecase.TaxonomyUseCase
	path    string
	log     *logrus.Logger
}

func NewTaxonomyHandler(uc usecase.TaxonomyUseCase, path string, logger *logrus.Logger) *TaxonomyHandler {
	return &TaxonomyHandler{
		useCase: uc,
		path:    path,
		log:     logger,
	}
}

func (h *TaxonomyHandler) RegisterRoutes(router gin.IRouter, jwtSecret string) {
	group := router.Group("/api/" + h.path)
	{
		group.GET("", h.ListAll)
		group.GET("/:id", h.GetByID)

		admin := group.Group("", middleware.RequireAuth(jwtSecret, h.log), middleware.RequireAdmin(h.log))
		{
			admin.POST("", h.Create)
			admin.PUT("/:id", h.Update)
			admin.DELETE("/:id", h.Delete)
		}
	}
}

func (h *TaxonomyHandler) Create(c *gin.Context) {
	var requestBody struct {
		Name     string `json:"name"`
		ImageURL string `json:"imageUrl"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.useCase.Create(c.Request.Context(), requestBody.Name, requestBody.ImageURL)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to create entry: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusCreated, "Entry created successfully", created)
}

func (h *TaxonomyHandler) GetByID(c *gin.Context) {
	entry, err := h.useCase.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve entry: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Entry retrieved successfully", entry)
}

func (h *TaxonomyHandler) ListAll(c *gin.Context) {
	entries, err := h.useCase.ListAll(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list %s entries: %v", h.path, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve entries")
		return
	}
	SuccessResponse(c, http.StatusOK, "Entries retrieved successfully", entries)
}

func (h *TaxonomyHandler) Update(c *gin.Context) {
	var entry domain.Taxonomy
	if err := c.ShouldBindJSON(&entry); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	entry.ID = c.Param("id")

	updated, err := h.useCase.Update(c.Request.Context(), &entry)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update entry: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Entry updated successfully", updated)
}

func (h *TaxonomyHandler) Delete(c *gin.Context) {
	if err := h.useCase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to delete entry: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Entry deleted successfully", nil)
}

type BannerHandler struct {
	useCase usecase.BannerUseCase
	log     *logrus.Logger
}

func NewBannerHandler(uc usecase.BannerUseCase, logger *logrus.Logger) *BannerHandler {
	return &BannerHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *BannerHandler) RegisterRoutes(router gin.IRouter, jwtSecret string) {
	banners := router.Group("/api/banner")
	{
		banners.GET("", h.ListAll)

		admin := banners.Group("", middleware.RequireAuth(jwtSecret, h.log), middleware.RequireAdmin(h.log))
		{
			admin.POST("", h.Create)
			admin.DELETE("/:id", h.Delete)
		}
	}
}

func (h *BannerHandler) Create(c *gin.Context) {
	var requestBody struct {
		ImageURL string `json:"imageUrl"`
		Link     string `json:"link"`
	}
	if err := c.ShouldBindJSON(&requestBody); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.useCase.Create(c.Request.Context(), requestBody.ImageURL, requestBody.Link)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to create banner: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusCreated, "Banner created successfully", created)
}

func (h *BannerHandler) ListAll(c *gin.Context) {
	banners, err := h.useCase.ListAll(c.Request.Context())
	if err != nil {
		h.log.Errorf("Failed to list banners: %v", err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve banners")
		return
	}
	SuccessResponse(c, http.StatusOK, "Banners retrieved successfully", banners)
}

func (h *BannerHandler) Delete(c *gin.Context) {
	if err := h.useCase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to delete banner: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Banner deleted successfully", nil)
}
