package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/emilythestrangee/devflow/backend/internal/action"
	"github.com/emilythestrangee/devflow/backend/internal/apperr"
	"github.com/emilythestrangee/devflow/backend/internal/models"
)

type AuthHandler struct {
	db       *gorm.DB
	resolver action.Resolver
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{db: db, resolver: action.ContextResolver{}}
}

var jwtSecret = []byte(os.Getenv("JWT_SECRET"))

func generateToken(user models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"exp":      time.Now().Add(time.Hour * 72).Unix(),
	})
	return token.SignedString(jwtSecret)
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	res, err := action.Run(c, h.resolver, req, false)
	if err != nil {
		respondErr(c, err)
		return
	}
	input := res.Params

	// Check if username or email already exists
	var existingUser models.User
	if err := h.db.Where("username = ? OR email = ?", input.Username, input.Email).First(&existingUser).Error; err == nil {
		respondBadRequest(c, "Username or email already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		respondErr(c, err)
		return
	}

	user := models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashedPassword),
		Avatar:   input.Avatar,
	}

	if err := h.db.Create(&user).Error; err != nil {
		respondErr(c, &apperr.TransactionError{Op: "create user", Err: err})
		return
	}

	tokenString, err := generateToken(user)
	if err != nil {
		respondErr(c, err)
		return
	}

	respond(c, http.StatusCreated, models.AuthResponse{
		Token: tokenString,
		User:  user,
	})
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	res, err := action.Run(c, h.resolver, req, false)
	if err != nil {
		respondErr(c, err)
		return
	}
	input := res.Params

	var user models.User
	if err := h.db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		respondErr(c, &apperr.UnauthorizedError{})
		return
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		respondErr(c, &apperr.UnauthorizedError{})
		return
	}

	tokenString, err := generateToken(user)
	if err != nil {
		respondErr(c, err)
		return
	}

	respond(c, http.StatusOK, models.AuthResponse{
		Token: tokenString,
		User:  user,
	})
}

// GetMe returns the current authenticated user
func (h *AuthHandler) GetMe(c *gin.Context) {
	res, err := action.Run(c, h.resolver, struct{}{}, true)
	if err != nil {
		respondErr(c, err)
		return
	}

	var user models.User
	if err := h.db.First(&user, res.Session.UserID).Error; err != nil {
		respondErr(c, &apperr.NotFoundError{Resource: "user"})
		return
	}

	respond(c, http.StatusOK, user)
}
