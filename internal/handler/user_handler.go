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

// UserHandler handles user account requests
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

func (h *UserHandler) GetUserByID(c *gin.Context) {
	user, err := h.service.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		log.Printf("Error getting user by ID: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoUsersFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		log.Printf("Error listing users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindingErrorMessage(err)})
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
			return
		}
		log.Printf("Error creating user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User created", "data": user})
}

func (h *UserHandler) UpdateCurrentUser(c *gin.Context) {
	ident, err := getAuthIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
		return
	}

	var req model.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": bindingErrorMessage(err)})
		return
	}

	user, err := h.service.UpdateCurrentUser(c.Request.Context(), ident, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
		case errors.Is(err, service.ErrUserAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
		default:
			log.Printf("Error updating user: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update user"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated", "data": user})
}

func (h *UserHandler) DeleteCurrentUser(c *gin.Context) {
	ident, err := getAuthIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
		return
	}

	user, err := h.service.DeleteCurrentUser(c.Request.Context(), ident)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		log.Printf("Error deleting user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted", "data": user})
}

// CheckToken echoes the caller's verified claims without touching storage
func (h *UserHandler) CheckToken(c *gin.Context) {
	ident, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"message": "token not valid"})
		return
	}
	c.JSON(http.StatusOK, ident)
}

// RegisterUserRoutes registers user routes
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW, optionalAuthMW gin.HandlerFunc) {
	userRoutes := rg.Group("/users")
	{
		userRoutes.GET("", h.ListUsers)
		userRoutes.POST("", h.CreateUser) // registration is open
		userRoutes.GET("/token", optionalAuthMW, h.CheckToken)
		userRoutes.GET("/:id", h.GetUserByID)
		userRoutes.PUT("", authMW, h.UpdateCurrentUser)
		userRoutes.DELETE("", authMW, h.DeleteCurrentUser)
	}
}
