package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tanakh-review/api/internal/auth"
	"github.com/tanakh-review/api/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthHandler(db *gorm.DB, jwtSecret string) *AuthHandler {
	return &AuthHandler{db: db, jwtSecret: jwtSecret}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and issues an access/refresh token pair. The
// refresh token is persisted so it can be revoked.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	var user model.User
	result := h.db.Where("username = ?", req.Username).First(&user)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			log.Printf("Error during login: %v", result.Error)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "incorrect username or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "incorrect username or password"})
		return
	}

	accessToken, err := auth.GenerateAccessToken(&user, h.jwtSecret)
	if err != nil {
		log.Printf("Failed to generate access token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	refreshToken, err := auth.GenerateRefreshToken()
	if err != nil {
		log.Printf("Failed to generate refresh token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	tokenRow := model.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(auth.RefreshTokenExpiry),
		CreatedAt: time.Now(),
	}
	if err := h.db.Create(&tokenRow).Error; err != nil {
		log.Printf("Failed to store refresh token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":     accessToken,
		"refreshToken":    refreshToken,
		"privilege_level": user.PrivilegeLevel,
		"user_id":         user.ID,
	})
}

type RefreshRequest struct {
	Token string `json:"token" binding:"required"`
}

// RefreshToken exchanges a stored, unexpired refresh token for a new access
// token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token is required"})
		return
	}

	var tokenRow model.RefreshToken
	result := h.db.Where("token = ? AND revoked = ? AND expires_at > ?",
		req.Token, false, time.Now()).First(&tokenRow)
	if result.Error != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "invalid or expired refresh token"})
		return
	}

	var user model.User
	if err := h.db.First(&user, "user_id = ?", tokenRow.UserID).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "user not found"})
		return
	}

	accessToken, err := auth.GenerateAccessToken(&user, h.jwtSecret)
	if err != nil {
		log.Printf("Failed to generate access token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": accessToken,
		"expiresIn":   int(auth.AccessTokenExpiry.Seconds()),
	})
}

// Logout deletes the refresh token so it can no longer mint access tokens.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token is required"})
		return
	}

	if err := h.db.Where("token = ?", req.Token).Delete(&model.RefreshToken{}).Error; err != nil {
		log.Printf("Error during logout: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Me returns the authenticated user's row.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var user model.User
	if err := h.db.First(&user, "user_id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}
