package admin

import (
	"context"
	"errors"
	"time"

	"serenity/database/repository"
	"serenity/models"
	"serenity/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials hides whether the e-mail or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

const sessionDuration = 24 * time.Hour

func (s *DefaultAdminService) Login(ctx context.Context, email, password string) (string, *models.StaffUser, error) {
	staff, err := s.StaffRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(staff.ID, staff.Email, sessionDuration)
	if err != nil {
		return "", nil, err
	}
	utils.GetLogger().Info("staff login", zap.String("staffID", staff.ID))
	return token, staff, nil
}

func (s *DefaultAdminService) Staff(ctx context.Context, id string) (*models.StaffUser, error) {
	return s.StaffRepo.GetByID(ctx, id)
}

// HashPassword produces the bcrypt hash stored on staff users.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
