package handler

import (
	"errors"
	"log"
	"net/http"

	"cat_registry/internal/middleware"
	"cat_registry/internal/model"
	"cat_registry/internal/service"

	"github.com/gin-gonic/gin"
)

// CatHandler handles cat record requests
type CatHandler struct {
	service service.CatService
}

// NewCatHandler creates a new CatHandler
func NewCatHandler(s service.CatService) *CatHandler {
	return &CatHandler{service: s}
}

// Helper to get the authenticated caller identity from context
func getAuthIdentity(c *gin.Context) (model.Identity, error) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		return model.Identity{}, errors.New("caller identity not found in context")
	}
	return ident, nil
}

func (h *CatHandler) ListCats(c *gin.Context) {
	cats, err := h.service.ListCats(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoCatsFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		log.Printf("Error listing cats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve cats"})
		return
	}
	c.JSON(http.StatusOK, cats)
}

func (h *CatHandler) GetCatByID(c *gin.Context) {
	cat, err := h.service.GetCatByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrCatNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		log.Printf("Error getting cat by ID: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve cat"})
		return
	}
	c.JSON(http.StatusOK, cat)
}

// GetMyCats lists the cats owned by the caller. The owner id comes from the
// verified identity, never from a request parameter.
func (h *CatHandler) GetMyCats(c *gin.Context) {
	ident, err := getAuthIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
		return
	}

	cats, err := h.service.ListCatsByOwner(c.Request.Context(), ident)
	if err != nil {
		log.Printf("Error listing cats by owner: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve cats"})
		return
	}
	if cats == nil {
		cats = []model.Cat{} // empty result serializes as [], not null
	}
	c.JSON(http.StatusOK, cats)
}

func (h *CatHandler) GetCatsByBoundingBox(c *gin.Context) {
	bottomLeft := c.Query("bottomLeft")
	topRight := c.Query("topRight")

	cats, err := h.service.ListCatsInBoundingBox(c.Request.Context(), bottomLeft, topRight)
	if err != nil {
		log.Printf("Error listing cats in bounding box: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve cats"})
		return
	}
	if cats == nil {
		cats = []model.Cat{} // empty result serializes as [], not null
	}
	c.JSON(http.StatusOK, cats)
}

func (h *CatHandler) CreateCat(c *gin.Context) {
	ident, err := getAuthIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
		return
	}

	var req model.CreateCatRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindingErrorMessage(err)})
		return
	}

	file, _ := c.FormFile("cat") // service rejects a missing file
	coords := middleware.GetCoords(c)

	cat, err := h.service.CreateCat(c.Request.Context(), ident, req, file, coords)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileRequired),
			errors.Is(err, service.ErrInvalidFileFormat),
			errors.Is(err, service.ErrFileSizeExceeded),
			errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			log.Printf("Error creating cat: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create cat"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cat created", "data": cat})
}

func (h *CatHandler) UpdateCat(c *gin.Context) {
	ident, err := getAuthIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
		return
	}

	var req model.UpdateCatRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindingErrorMessage(err)})
		return
	}

	file, _ := c.FormFile("cat") // optional on update
	coords := middleware.GetCoords(c)

	cat, err := h.service.UpdateCat(c.Request.Context(), c.Param("id"), ident, req, file, coords)
	if err != nil {
		h.writeMutationError(c, err, "Failed to update cat")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cat updated", "data": cat})
}

func (h *CatHandler) DeleteCat(c *gin.Context) {
	ident, err := getAuthIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
		return
	}

	cat, err := h.service.DeleteCat(c.Request.Context(), c.Param("id"), ident)
	if err != nil {
		h.writeMutationError(c, err, "Failed to delete cat")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cat deleted", "data": cat})
}

// --- Admin Routes ---

func (h *CatHandler) AdminUpdateCat(c *gin.Context) {
	ident, err := getAuthIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
		return
	}

	var req model.AdminUpdateCatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindingErrorMessage(err)})
		return
	}

	cat, err := h.service.AdminUpdateCat(c.Request.Context(), c.Param("id"), ident, req)
	if err != nil {
		h.writeMutationError(c, err, "Failed to update cat")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cat updated", "data": cat})
}

func (h *CatHandler) AdminDeleteCat(c *gin.Context) {
	ident, err := getAuthIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
		return
	}

	cat, err := h.service.AdminDeleteCat(c.Request.Context(), c.Param("id"), ident)
	if err != nil {
		h.writeMutationError(c, err, "Failed to delete cat")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cat deleted", "data": cat})
}

func (h *CatHandler) writeMutationError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrCatNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidFileFormat),
		errors.Is(err, service.ErrFileSizeExceeded):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		log.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": fallback})
	}
}

// RegisterCatRoutes registers cat routes
func (h *CatHandler) RegisterCatRoutes(rg *gin.RouterGroup, authMW, adminMW, coordsMW gin.HandlerFunc) {
	catRoutes := rg.Group("/cats")
	{
		catRoutes.GET("", h.ListCats)
		catRoutes.GET("/user", authMW, h.GetMyCats)
		catRoutes.GET("/location", h.GetCatsByBoundingBox)
		catRoutes.GET("/:id", h.GetCatByID)
		catRoutes.POST("", authMW, coordsMW, h.CreateCat)
		catRoutes.PUT("/:id", authMW, coordsMW, h.UpdateCat) // Service layer handles ownership
		catRoutes.DELETE("/:id", authMW, h.DeleteCat)        // Service layer handles ownership
	}

	// Admin-scoped cat routes
	adminRoutes := rg.Group("/cats/admin")
	adminRoutes.Use(authMW)  // Requires authentication
	adminRoutes.Use(adminMW) // Requires admin role
	{
		adminRoutes.PUT("/:id", h.AdminUpdateCat)
		adminRoutes.DELETE("/:id", h.AdminDeleteCat)
	}
}
