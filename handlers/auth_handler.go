package handlers

import (
	"errors"
	"time"

	"multiblog/helper"
	"multiblog/middleware"
	"multiblog/models"
	"multiblog/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	Helper      *helper.HTTPHelper
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService, Helper: helper.NewHTTPHelper()}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendCreated(c, "Register success", user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Helper.SendBadRequest(c, "Invalid request body", err.Error())
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		// Unknown user and wrong password must look the same to the client.
		var notFound models.ErrorNotFound
		var unauthorized models.ErrorUnauthorized
		if errors.As(err, &notFound) || errors.As(err, &unauthorized) {
			h.Helper.SendUnauthorizedError(c, "invalid credentials", h.Helper.EmptyJsonMap())
			return
		}
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Login success", response)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	tokenID := c.GetString(middleware.ContextTokenID)
	expiresAt := c.GetTime(middleware.ContextTokenExpiresAt)
	if expiresAt.IsZero() {
		expiresAt = time.Now()
	}

	if err := h.authService.Logout(c.Request.Context(), tokenID, expiresAt); err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Logout success", h.Helper.EmptyJsonMap())
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, exists := c.Get(middleware.ContextUserID)
	if !exists {
		h.Helper.SendUnauthorizedError(c, "User not found in context", h.Helper.EmptyJsonMap())
		return
	}

	user, err := h.authService.GetUserByID(c.Request.Context(), userID.(uint))
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Profile loaded", user)
}
