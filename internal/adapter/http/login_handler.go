package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/zizozako94-cmyk/soqdz/configs"
	"github.com/zizozako94-cmyk/soqdz/internal/logging"
	"github.com/zizozako94-cmyk/soqdz/internal/usecase"
)

// LoginHandler exchanges admin credentials for a bearer token.
type LoginHandler struct {
	cfg    configs.Config
	admins usecase.AdminUserRepo
}

func NewLoginHandler(cfg configs.Config, admins usecase.AdminUserRepo) *LoginHandler {
	return &LoginHandler{cfg: cfg, admins: admins}
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies the bcrypt hash stored in admin_users and issues an HS256
// JWT. Wrong email and wrong password return the same response.
func (h *LoginHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	admin, err := h.admins.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, usecase.ErrNotFound) {
			logging.From(c).Error("admin lookup failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  h.cfg.Security.Issuer,
		"aud":  h.cfg.Security.Audience,
		"sub":  admin.Email,
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"exp":  now.Add(h.cfg.Security.TTL).Unix(),
		"role": "admin",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.Security.JWTSecret))
	if err != nil {
		logging.From(c).Error("token signing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_in":   int(h.cfg.Security.TTL.Seconds()),
	})
}
