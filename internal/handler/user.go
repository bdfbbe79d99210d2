package handler

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"carpool/internal/config"
	"carpool/internal/domain"
	"carpool/internal/repository"
)

var (
	mailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	contactPattern  = regexp.MustCompile(`^\d{1,10}$`)
	passwordLetter  = regexp.MustCompile(`[A-Za-z]`)
	passwordDigit   = regexp.MustCompile(`\d`)
	passwordSpecial = regexp.MustCompile(`[@$!%*#?&]`)
)

// UserHandler handles registration and login.
type UserHandler struct {
	userRepo repository.UserRepository
	auth     config.AuthConfig
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo repository.UserRepository, auth config.AuthConfig) *UserHandler {
	return &UserHandler{userRepo: userRepo, auth: auth}
}

// RegisterRequest is the HTTP request body for user registration.
type RegisterRequest struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	LastName      string `json:"lastName"`
	Mail          string `json:"mail"`
	Password      string `json:"password"`
	ContactNumber string `json:"contactNumber"`
	Image         string `json:"image"`
}

// Register handles POST /v1/auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "missing data in request body")
		return
	}

	if req.ID == "" || req.Name == "" || req.LastName == "" || req.Mail == "" ||
		req.Password == "" || req.ContactNumber == "" || req.Image == "" {
		badRequest(c, "missing data in request body")
		return
	}
	if !mailPattern.MatchString(req.Mail) {
		badRequest(c, "invalid mail address")
		return
	}
	if !contactPattern.MatchString(req.ContactNumber) {
		badRequest(c, "invalid contact number, up to 10 digits expected")
		return
	}
	if !validPassword(req.Password) {
		badRequest(c, "invalid password: at least 8 characters including a letter, a digit and a special character")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, err)
		return
	}

	user := &domain.User{
		ID:            req.ID,
		Name:          req.Name,
		LastName:      req.LastName,
		Mail:          req.Mail,
		PasswordHash:  string(hash),
		ContactNumber: req.ContactNumber,
		Image:         req.Image,
	}

	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			badRequest(c, "mail or id already registered")
			return
		}
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{
		"message": "Registration completed successfully.",
		"userId":  user.ID,
	})
}

// LoginRequest is the HTTP request body for login.
type LoginRequest struct {
	Mail     string `json:"mail"`
	Password string `json:"password"`
}

// Login handles POST /v1/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "missing data in request body")
		return
	}

	if req.Mail == "" || req.Password == "" {
		badRequest(c, "missing data in request body")
		return
	}
	if !mailPattern.MatchString(req.Mail) {
		badRequest(c, "invalid mail address")
		return
	}

	user, err := h.userRepo.GetByMail(c.Request.Context(), req.Mail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			unauthorized(c)
			return
		}
		respondError(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		unauthorized(c)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  user.ID,
		"exp": time.Now().Add(h.auth.TokenTTL).Unix(),
	})

	signed, err := token.SignedString([]byte(h.auth.JWTSecret))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"message": "Login successful.",
		"token":   signed,
		"userId":  user.ID,
	})
}

func validPassword(password string) bool {
	return len(password) >= 8 &&
		passwordLetter.MatchString(password) &&
		passwordDigit.MatchString(password) &&
		passwordSpecial.MatchString(password)
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: http.StatusBadRequest})
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "incorrect mail or password", Code: http.StatusUnauthorized})
}
