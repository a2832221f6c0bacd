package services

import (
	"crypto/subtle"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"elearning_app/apierr"
	"elearning_app/logger"
	"elearning_app/models"
)

// AdminService checks the single fixed admin credential pair. A successful
// check is only an acknowledgement; no session or token is created.
type AdminService struct {
	username     string
	passwordHash []byte
	log          *logger.Logger
	now          func() time.Time
}

// NewAdminService uses passwordHash when set, otherwise hashes password.
func NewAdminService(username, password, passwordHash string, log *logger.Logger) (*AdminService, error) {
	hash := []byte(passwordHash)
	if len(hash) == 0 {
		hashed, err := HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("error hashing admin password: %w", err)
		}
		hash = []byte(hashed)
	}
	return &AdminService{
		username:     username,
		passwordHash: hash,
		log:          log.With("service", "AdminService"),
		now:          time.Now,
	}, nil
}

// AuthenticateAdmin checks one credential pair. Missing fields are rejected
// by the binding tags on models.LoginRequest before this is called.
func (s *AdminService) AuthenticateAdmin(username, password string) (models.LoginResponse, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := VerifyPassword(string(s.passwordHash), password)
	if !userOK || !passOK {
		s.log.Warn("Admin login failed", "username", username)
		return models.LoginResponse{}, apierr.Unauthorized("Invalid credentials")
	}

	s.log.Info("Admin login successful", "username", username)
	return models.LoginResponse{
		Success:   true,
		Message:   "Login successful",
		User:      models.AdminUser{Username: username},
		Timestamp: s.now().UTC(),
	}, nil
}

// VerifyPassword checks if a password matches the hashed version
func VerifyPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// HashPassword creates a bcrypt hash of a password
func HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}
