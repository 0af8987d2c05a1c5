package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/m4tinbeigi-official/didar-crm/internal/repositories"
)

// UserHandler exposes the per-user sync flags.
type UserHandler struct {
	users repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users repositories.UserRepository) *UserHandler {
	return &UserHandler{users: users}
}

// GetUser returns a user by ID.
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	user, err := h.users.FindByID(c.Request.Context(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// OptOut excludes a user from both sync directions.
func (h *UserHandler) OptOut(c *gin.Context) {
	h.setOptOut(c, true)
}

// OptIn re-includes a user in syncing.
func (h *UserHandler) OptIn(c *gin.Context) {
	h.setOptOut(c, false)
}

func (h *UserHandler) setOptOut(c *gin.Context, optOut bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	err = h.users.SetOptOut(c.Request.Context(), id, optOut)
	if errors.Is(err, repositories.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"optOut": optOut})
}
