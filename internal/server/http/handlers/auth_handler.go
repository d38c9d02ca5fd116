package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ocexchange/internal/server/http/dto"
	"github.com/polkiloo/ocexchange/internal/server/http/middleware"
)

// AuthHandler processes registration, login and email verification.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/user/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, err := h.facade.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		// A malformed email is bad input here, not a failed login.
		if status := statusFor(err); status == http.StatusUnauthorized {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}

// Login handles POST /api/user/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, err := h.facade.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}

// RequestVerification handles POST /api/user/verification.
func (h *AuthHandler) RequestVerification(c *gin.Context) {
	if err := h.facade.RequestVerificationCode(c.Request.Context(), CurrentUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

// ConfirmVerification handles POST /api/user/verification/confirm.
func (h *AuthHandler) ConfirmVerification(c *gin.Context) {
	var req dto.VerificationConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.facade.ConfirmVerificationCode(c.Request.Context(), CurrentUserID(c), req.Code); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
