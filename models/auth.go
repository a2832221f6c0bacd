package models

import "time"

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminUser struct {
	Username string `json:"username"`
}

// LoginResponse acknowledges a credential check. No token is issued.
type LoginResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	User      AdminUser `json:"user"`
	Timestamp time.Time `json:"timestamp"`
}
