package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"scribehub/config"
	"scribehub/middleware"
	"scribehub/services"
	"scribehub/utils"
)

type AuthController struct {
	authService         *services.AuthService
	userService         *services.UserService
	notificationService *services.NotificationService
}

func NewAuthController(authService *services.AuthService, userService *services.UserService, notificationService *services.NotificationService) *AuthController {
	return &AuthController{
		authService:         authService,
		userService:         userService,
		notificationService: notificationService,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type UpdateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	user, token, err := ac.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			utils.ConflictResponse(c, "Email already registered", nil)
			return
		}
		utils.InternalServerErrorResponse(c, "Registration failed", err.Error())
		return
	}

	utils.CreatedResponse(c, "Account created", gin.H{
		"user":  user,
		"token": token,
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}

	user, token, err := ac.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.UnauthorizedResponse(c, "Invalid email or password")
			return
		}
		utils.InternalServerErrorResponse(c, "Login failed", err.Error())
		return
	}

	utils.SuccessResponse(c, "Logged in", gin.H{
		"user":  user,
		"token": token,
	})
}

// ForgotPassword always responds with success so account existence is
// not leaked; the email is only sent when the account exists.
func (ac *AuthController) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}

	user, token, err := ac.authService.CreatePasswordResetToken(c.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, services.ErrUserNotFound) {
		utils.InternalServerErrorResponse(c, "Failed to process request", err.Error())
		return
	}

	if err == nil {
		resetURL := fmt.Sprintf("%s/reset-password?token=%s", config.AppConfig.FrontendURL, token)
		if err := ac.notificationService.SendPasswordResetEmail(user, resetURL); err != nil {
			utils.LogError(fmt.Sprintf("password reset email to %s failed", user.Email), err)
		}
	}

	utils.SuccessResponse(c, "If that email is registered, a reset link has been sent", nil)
}

func (ac *AuthController) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	if err := ac.authService.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, services.ErrInvalidResetToken) {
			utils.BadRequestResponse(c, "Invalid or expired reset token", nil)
			return
		}
		utils.InternalServerErrorResponse(c, "Failed to reset password", err.Error())
		return
	}

	utils.SuccessResponse(c, "Password reset", nil)
}

func (ac *AuthController) ChangePassword(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}
	if err := utils.ValidatePassword(req.NewPassword); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	if err := ac.authService.ChangePassword(c.Request.Context(), caller, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.UnauthorizedResponse(c, "Current password is incorrect")
			return
		}
		utils.InternalServerErrorResponse(c, "Failed to change password", err.Error())
		return
	}

	utils.SuccessResponse(c, "Password changed", nil)
}

func (ac *AuthController) GetMe(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	user, err := ac.userService.GetByID(c.Request.Context(), caller)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.NotFoundResponse(c, "User not found")
			return
		}
		utils.InternalServerErrorResponse(c, "Failed to fetch profile", err.Error())
		return
	}

	utils.SuccessResponse(c, "Profile fetched", user)
}

func (ac *AuthController) UpdateMe(c *gin.Context) {
	caller, ok := middleware.CallerID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request format", err.Error())
		return
	}

	user, err := ac.userService.UpdateProfile(c.Request.Context(), caller, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.NotFoundResponse(c, "User not found")
			return
		}
		utils.InternalServerErrorResponse(c, "Failed to update profile", err.Error())
		return
	}

	utils.SuccessResponse(c, "Profile updated", user)
}

func (ac *AuthController) ListUsers(c *gin.Context) {
	users, err := ac.userService.ListUsers(c.Request.Context())
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to list users", err.Error())
		return
	}

	utils.SuccessResponse(c, "Users fetched", users)
}

// GoogleAuth returns the Google OAuth URL with a one-time state.
func (ac *AuthController) GoogleAuth(c *gin.Context) {
	state, err := ac.authService.GenerateState()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to generate authentication state", nil)
		return
	}

	authURL := ac.authService.GetGoogleAuthURL(state)

	utils.SuccessResponse(c, "Google OAuth URL generated", gin.H{
		"auth_url": authURL,
		"state":    state,
	})
}

func (ac *AuthController) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")

	if !ac.authService.ValidateState(state) {
		utils.BadRequestResponse(c, "Invalid or expired authentication state", nil)
		return
	}

	_, token, err := ac.authService.HandleGoogleCallback(c.Request.Context(), code)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Google sign-in failed", err.Error())
		return
	}

	redirectURL := fmt.Sprintf("%s/auth/google/success?token=%s", config.AppConfig.FrontendURL, token)
	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}
