package auth

import (
	"errors"
	"net/http"
	"strings"

	"ctfboard/config"
	"ctfboard/internal/middleware"
	"ctfboard/pkg/responses"
	"ctfboard/pkg/token"
	"ctfboard/pkg/utils"
	"ctfboard/pkg/validator"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthController struct {
	repo   AuthRepository
	config *config.Config
}

func NewAuthController(repo AuthRepository, cfg *config.Config) *AuthController {
	return &AuthController{
		repo:   repo,
		config: cfg,
	}
}

// @Summary      Register a new user
// @Description  Create an account. The first account ever registered becomes a hidden admin.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        user  body  RegisterRequest  true  "Registration details"
// @Success      201  {object}  AuthResponse
// @Failure      400  {object}  responses.ErrorResponse "Validation error"
// @Failure      409  {object}  responses.ErrorResponse "Username already registered"
// @Router       /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": validator.ParseError(err)})
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		responses.BadRequest(c, "Username must not be empty")
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		responses.InternalServerError(c, "Error hashing password")
		return
	}

	newUser, err := ac.repo.RegisterUser(username, hashedPassword)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			responses.Conflict(c, "User with this username already exists")
			return
		}
		responses.InternalServerError(c, "Failed to register user")
		return
	}

	jwt, err := token.GenerateJWT(newUser.ID, newUser.IsAdmin, ac.config.JWT.Secret, ac.config.JWT.ExpiryMinutes)
	if err != nil {
		responses.InternalServerError(c, "Token generation failed")
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Token:    jwt,
		UserID:   newUser.ID,
		Username: newUser.Username,
		IsAdmin:  newUser.IsAdmin,
	})
}

// @Summary      Log in
// @Description  Verify credentials and issue a JWT.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        credentials  body  LoginRequest  true  "Credentials"
// @Success      200  {object}  AuthResponse
// @Failure      401  {object}  responses.ErrorResponse "Invalid username or password"
// @Router       /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "fields": validator.ParseError(err)})
		return
	}

	// Unknown username and wrong password produce the same response so the
	// endpoint does not leak which usernames exist.
	u, err := ac.repo.GetUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.Unauthorized(c, ErrInvalidCredentials.Error())
			return
		}
		responses.InternalServerError(c, "Login failed")
		return
	}

	if !utils.CheckPassword(u.Password, req.Password) {
		responses.Unauthorized(c, ErrInvalidCredentials.Error())
		return
	}

	jwt, err := token.GenerateJWT(u.ID, u.IsAdmin, ac.config.JWT.Secret, ac.config.JWT.ExpiryMinutes)
	if err != nil {
		responses.InternalServerError(c, "Token generation failed")
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:    jwt,
		UserID:   u.ID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
	})
}

// @Summary      Current user profile
// @Tags         Auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  responses.SuccessResponse
// @Failure      401  {object}  responses.ErrorResponse
// @Router       /auth/me [get]
func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	u, err := ac.repo.GetUserByID(userID)
	if err != nil {
		responses.NotFound(c, "User")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "", gin.H{
		"id":        u.ID,
		"username":  u.Username,
		"is_admin":  u.IsAdmin,
		"is_hidden": u.IsHidden,
	})
}
