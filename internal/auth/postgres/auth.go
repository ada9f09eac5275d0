package postgres

import (
	"errors"

	userDatamodel "github.com/frahmantamala/bragboard/internal/core/datamodel/user"

	"github.com/frahmantamala/bragboard/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// GetUserByEmail returns the principal and its stored password hash.
// Suspended accounts cannot log in.
func (r *Repository) GetUserByEmail(email string) (*auth.User, string, error) {
	var u userDatamodel.User
	err := r.db.Where("email = ? AND is_active = true", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", auth.ErrUserNotFound
		}
		return nil, "", err
	}
	return toPrincipal(&u), u.PasswordHash, nil
}

func (r *Repository) GetUserByID(userID int64) (*auth.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", userID).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return toPrincipal(&u), nil
}

func toPrincipal(u *userDatamodel.User) *auth.User {
	return &auth.User{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Name:       u.Name,
		Role:       auth.Role(u.Role),
		Department: u.Department,
		IsActive:   u.IsActive,
	}
}
