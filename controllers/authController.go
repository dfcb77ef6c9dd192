package controllers

import (
	"net/http"

	"github.com/Kariqs/bookbuy-api/middlewares"
	"github.com/Kariqs/bookbuy-api/models"
	"github.com/Kariqs/bookbuy-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgUserCreated       = "User created successfully."
	msgUserActivated     = "User activated."
	msgPasswordChanged   = "Password changed successfully."
	msgLoggedOut         = "Logged out successfully."
	msgMissingToken      = "token: required"
	msgSessionNotFound   = "Not authenticated"
	tokenTypeBearer      = "bearer"
	activationTokenField = "token"
)

// AuthController serves the /users endpoints.
type AuthController struct {
	users *services.UserService
	log   *zap.Logger
}

func NewAuthController(users *services.UserService, log *zap.Logger) *AuthController {
	return &AuthController{users: users, log: log}
}

// Register handles user registration
func (c *AuthController) Register(ctx *gin.Context) {
	var data models.RegisterData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendBindingError(ctx, err)
		return
	}

	if _, err := c.users.Register(ctx.Request.Context(), data); err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	sendSuccessResponse(ctx, http.StatusCreated, msgUserCreated)
}

// RequestActivationToken answers 200 with a reused token and 201 with a new one.
func (c *AuthController) RequestActivationToken(ctx *gin.Context) {
	var data models.ActivationTokenRequest
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendBindingError(ctx, err)
		return
	}

	token, reused, err := c.users.RequestActivationToken(ctx.Request.Context(), data.Email)
	if err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	status := http.StatusCreated
	if reused {
		status = http.StatusOK
	}
	sendSuccessResponse(ctx, status, gin.H{activationTokenField: token})
}

func (c *AuthController) ActivateAccount(ctx *gin.Context) {
	token := ctx.Query(activationTokenField)
	if token == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, msgMissingToken)
		return
	}

	if err := c.users.Activate(ctx.Request.Context(), token); err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	sendSuccessResponse(ctx, http.StatusOK, msgUserActivated)
}

// AccessToken takes an OAuth2 password form and returns a bearer token.
func (c *AuthController) AccessToken(ctx *gin.Context) {
	var data models.LoginData
	if err := ctx.ShouldBind(&data); err != nil {
		sendBindingError(ctx, err)
		return
	}

	token, err := c.users.Login(ctx.Request.Context(), data.Username, data.Password)
	if err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"access_token": token, "token_type": tokenTypeBearer})
}

func (c *AuthController) Me(ctx *gin.Context) {
	user, ok := middlewares.CurrentUser(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgSessionNotFound)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, user.Public())
}

func (c *AuthController) ChangePassword(ctx *gin.Context) {
	session, ok := middlewares.CurrentSession(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgSessionNotFound)
		return
	}

	var data models.ChangePasswordData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendBindingError(ctx, err)
		return
	}

	if err := c.users.ChangePassword(ctx.Request.Context(), session, data); err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	sendSuccessResponse(ctx, http.StatusOK, msgPasswordChanged)
}

func (c *AuthController) Logout(ctx *gin.Context) {
	session, ok := middlewares.CurrentSession(ctx)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgSessionNotFound)
		return
	}

	if err := c.users.Logout(ctx.Request.Context(), session); err != nil {
		sendAppError(ctx, c.log, err)
		return
	}

	sendSuccessResponse(ctx, http.StatusOK, msgLoggedOut)
}
