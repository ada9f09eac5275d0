package postgres

import (
	"errors"
	"time"

	userDatamodel "github.com/frahmantamala/bragboard/internal/core/datamodel/user"

	"github.com/frahmantamala/bragboard/internal/auth"
	"github.com/frahmantamala/bragboard/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements the user.Repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(userID int64) (*user.User, error) {
	var u userDatamodel.User
	if err := r.db.Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&u), nil
}

func (r *UserRepository) GetByEmail(email string) (*user.User, error) {
	var u userDatamodel.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&u), nil
}

func (r *UserRepository) GetByUsername(username string) (*user.User, error) {
	var u userDatamodel.User
	if err := r.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&u), nil
}

func (r *UserRepository) Create(u *user.User) error {
	dm := user.ToDataModel(u)
	now := time.Now()
	dm.CreatedAt = now
	dm.UpdatedAt = now
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	u.ID = dm.ID
	u.CreatedAt = dm.CreatedAt
	u.UpdatedAt = dm.UpdatedAt
	return nil
}

// CreateAdminWithKey consumes the security key and creates the admin
// account inside one transaction. If anything fails, the key stays
// unused and no account exists.
func (r *UserRepository) CreateAdminWithKey(u *user.User, key string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&userDatamodel.SecurityKey{}).
			Where("key = ? AND is_used = false", key).
			Update("is_used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return user.ErrKeyNotFound
		}

		dm := user.ToDataModel(u)
		now := time.Now()
		dm.CreatedAt = now
		dm.UpdatedAt = now
		if err := tx.Create(dm).Error; err != nil {
			return err
		}
		u.ID = dm.ID
		u.CreatedAt = dm.CreatedAt
		u.UpdatedAt = dm.UpdatedAt
		return nil
	})
}

func (r *UserRepository) ListByRole(role auth.Role) ([]*user.User, error) {
	var users []*userDatamodel.User
	err := r.db.Where("role = ?", string(role)).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return user.FromDataModelSlice(users), nil
}

func (r *UserRepository) ListByRoleAndDepartment(role auth.Role, department string) ([]*user.User, error) {
	var users []*userDatamodel.User
	err := r.db.Where("role = ? AND department = ?", string(role), department).
		Order("id ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return user.FromDataModelSlice(users), nil
}

// DeleteByIDAndRole deletes only when the target has the expected
// role, so an admin id passed to the employee endpoint 404s.
func (r *UserRepository) DeleteByIDAndRole(userID int64, role auth.Role) error {
	res := r.db.Where("id = ? AND role = ?", userID, string(role)).
		Delete(&userDatamodel.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetActive(userID int64, role auth.Role, active bool) error {
	res := r.db.Model(&userDatamodel.User{}).
		Where("id = ? AND role = ?", userID, string(role)).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}

// UpdateProfile applies only the supplied profile fields inside one
// transaction: read, mutate, write.
func (r *UserRepository) UpdateProfile(userID int64, dto user.UpdateProfileDTO) (*user.User, error) {
	var updated *user.User
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var u userDatamodel.User
		if err := tx.Where("id = ?", userID).First(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return user.ErrNotFound
			}
			return err
		}

		if dto.JoiningDate != nil {
			u.JoiningDate = dto.JoiningDate
		}
		if dto.CurrentProject != nil {
			u.CurrentProject = dto.CurrentProject
		}
		if dto.GroupMembers != nil {
			u.GroupMembers = dto.GroupMembers
		}
		if dto.Skills != nil {
			u.Skills = dto.Skills
		}
		if dto.Experience != nil {
			u.Experience = dto.Experience
		}
		u.UpdatedAt = time.Now()

		if err := tx.Save(&u).Error; err != nil {
			return err
		}
		updated = user.FromDataModel(&u)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *UserRepository) CreateSecurityKey(key string) (*user.SecurityKey, error) {
	dm := &userDatamodel.SecurityKey{Key: key}
	if err := r.db.Create(dm).Error; err != nil {
		return nil, err
	}
	return &user.SecurityKey{ID: dm.ID, Key: dm.Key, IsUsed: dm.IsUsed}, nil
}

func (r *UserRepository) ListSecurityKeys() ([]*user.SecurityKey, error) {
	var keys []*userDatamodel.SecurityKey
	if err := r.db.Order("id ASC").Find(&keys).Error; err != nil {
		return nil, err
	}
	result := make([]*user.SecurityKey, len(keys))
	for i, k := range keys {
		result[i] = &user.SecurityKey{ID: k.ID, Key: k.Key, IsUsed: k.IsUsed}
	}
	return result, nil
}

func (r *UserRepository) DeleteSecurityKey(keyID int64) error {
	res := r.db.Where("id = ?", keyID).Delete(&userDatamodel.SecurityKey{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return user.ErrKeyNotFound
	}
	return nil
}
