package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/lshigami/Quokkas/internal/dto"
	"github.com/lshigami/Quokkas/internal/service"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register godoc
// @Summary Register a new user
// @Description Create a user account with a unique username. The password is stored as a bcrypt hash.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.RegisterRequest true "Username and password"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "Username already registered"
// @Router /register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	user, err := c.authService.Register(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		log.Warn().Err(err).Str("username", req.Username).Msg("Register: Service error")
		respondError(ctx, err)
		return
	}

	var resp dto.UserResponse
	if err := copier.Copy(&resp, user); err != nil {
		log.Error().Err(err).Msg("Register: Failed to copy user to response DTO")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Error preparing response"})
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Log in and receive a bearer token
// @Description Exchange valid credentials for a signed, time-limited access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Username and password"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Incorrect username or password"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	token, err := c.authService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		log.Warn().Err(err).Str("username", req.Username).Msg("Login: Authentication failed")
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}
