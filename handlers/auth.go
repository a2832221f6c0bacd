package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"elearning_app/apierr"
	"elearning_app/models"
	"elearning_app/services"
)

type AuthHandler struct {
	admin *services.AdminService
}

func NewAuthHandler(admin *services.AdminService) *AuthHandler {
	return &AuthHandler{admin: admin}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierr.Validation(msgLoginRequired), "")
		return
	}

	resp, err := h.admin.AuthenticateAdmin(req.Username, req.Password)
	if err != nil {
		respondError(c, err, "Login process failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}
