package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"droply/models"
	userSvc "droply/services/user"
	"droply/utils"
)

// currentUserID reads the authenticated user set by the JWT middleware.
func currentUserID(c *gin.Context) string {
	return c.GetString("userID")
}

// RegisterUserHandler creates a new account and returns a signed token.
func (hb *HandlerBundle) RegisterUserHandler(c *gin.Context) {
	var req models.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	resp, err := hb.Users.Register(c.Request.Context(), req)
	if err != nil {
		utils.JSONError(c, http.StatusConflict, "registration failed", err.Error())
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AuthenticateUserHandler exchanges credentials for a token.
func (hb *HandlerBundle) AuthenticateUserHandler(c *gin.Context) {
	var req models.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	resp, err := hb.Users.Authenticate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, userSvc.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "authentication failed", err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "authentication failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetUserByIDHandler returns a user's public profile.
func (hb *HandlerBundle) GetUserByIDHandler(c *gin.Context) {
	u, err := hb.Users.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.JSONError(c, http.StatusNotFound, "user not found", err.Error())
		return
	}
	c.JSON(http.StatusOK, u)
}

// SetFCMTokenHandler registers the caller's device token for push.
func (hb *HandlerBundle) SetFCMTokenHandler(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := hb.Users.SetFCMToken(c.Request.Context(), currentUserID(c), req.Token); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to save device token", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
