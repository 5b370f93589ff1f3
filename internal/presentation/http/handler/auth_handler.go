package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/fms-api/internal/application/service"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/sangkips/fms-api/internal/presentation/http/dto/request"
	"github.com/sangkips/fms-api/internal/presentation/http/dto/response"
	"github.com/sangkips/fms-api/internal/presentation/http/middleware"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func userBody(u *entity.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"name":        u.Name,
		"email":       u.Email,
		"role":        u.Role,
		"address":     u.Address,
		"line_linked": u.HasLineAccount(),
		"created_at":  u.CreatedAt,
	}
}

// Login handles user login
// @Summary Login
// @Description Authenticate user and return tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", gin.H{
		"user":          userBody(output.User),
		"access_token":  output.AccessToken,
		"refresh_token": output.RefreshToken,
		"token_type":    "Bearer",
	})
}

// Register handles user registration. An Admin account can only be created
// by an authenticated Admin.
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RegisterRequest true "Registration data"
// @Success 201 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), middleware.GetActor(c), &service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     enum.Role(req.Role),
		Address:  req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Registration successful", gin.H{"user": userBody(user)})
}

// RefreshToken handles token refresh
// @Summary Refresh Token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} response.APIResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Token refreshed successfully", gin.H{
		"access_token":  output.AccessToken,
		"refresh_token": output.RefreshToken,
		"token_type":    "Bearer",
	})
}

// Me returns the authenticated user
func (h *AuthHandler) Me(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), actor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "User retrieved successfully", userBody(user))
}
