package user

import (
	"errors"
	"log/slog"

	"github.com/frahmantamala/bragboard/internal"
	"github.com/frahmantamala/bragboard/internal/auth"
	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrKeyNotFound = errors.New("security key not found or already used")
)

// Repository defines the data access methods for users and security keys.
type Repository interface {
	GetByID(userID int64) (*User, error)
	GetByEmail(email string) (*User, error)
	GetByUsername(username string) (*User, error)
	Create(u *User) error
	// CreateAdminWithKey marks the key used and inserts the admin in a
	// single transaction; it fails without side effects when the key is
	// unknown or already used.
	CreateAdminWithKey(u *User, key string) error
	ListByRole(role auth.Role) ([]*User, error)
	ListByRoleAndDepartment(role auth.Role, department string) ([]*User, error)
	DeleteByIDAndRole(userID int64, role auth.Role) error
	SetActive(userID int64, role auth.Role, active bool) error
	UpdateProfile(userID int64, dto UpdateProfileDTO) (*User, error)

	CreateSecurityKey(key string) (*SecurityKey, error)
	ListSecurityKeys() ([]*SecurityKey, error)
	DeleteSecurityKey(keyID int64) error
}

// PasswordHasher is satisfied by the auth service.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

// Register onboards a new employee or admin account. Admin signup is
// gated behind a single-use security key; consuming the key and
// creating the account are atomic.
func (s *Service) Register(dto RegisterDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	if existing, err := s.repo.GetByEmail(dto.Email); err == nil && existing != nil {
		return nil, internal.ErrDuplicateEmail
	}
	if existing, err := s.repo.GetByUsername(dto.Username); err == nil && existing != nil {
		return nil, internal.ErrDuplicateUsername
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &User{
		Username:     dto.Username,
		Name:         dto.Name,
		Email:        dto.Email,
		PasswordHash: hash,
		Role:         auth.Role(dto.Role),
		Department:   dto.Department,
		IsActive:     true,
	}

	if u.Role == auth.RoleAdmin {
		if dto.SecurityKey == "" {
			return nil, internal.ErrMissingSecurityKey
		}
		if err := s.repo.CreateAdminWithKey(u, dto.SecurityKey); err != nil {
			if errors.Is(err, ErrKeyNotFound) {
				return nil, internal.ErrInvalidSecurityKey
			}
			s.logger.Error("admin registration failed", "error", err, "email", dto.Email)
			return nil, internal.NewInternalError("failed to register admin", err)
		}
	} else {
		if err := s.repo.Create(u); err != nil {
			s.logger.Error("registration failed", "error", err, "email", dto.Email)
			return nil, internal.NewInternalError("failed to register user", err)
		}
	}

	s.logger.Info("user registered", "user_id", u.ID, "role", u.Role, "department", u.Department)
	return u, nil
}

// ListEmployees returns employees visible to the caller. A superadmin
// sees every employee; an admin only sees their own department,
// regardless of what the client asked for.
func (s *Service) ListEmployees(caller *auth.User) ([]*User, error) {
	switch caller.Role {
	case auth.RoleSuperadmin:
		return s.repo.ListByRole(auth.RoleEmployee)
	case auth.RoleAdmin:
		return s.repo.ListByRoleAndDepartment(auth.RoleEmployee, caller.Department)
	default:
		return nil, internal.ErrForbidden
	}
}

// ListAdmins is superadmin-only.
func (s *Service) ListAdmins(caller *auth.User) ([]*User, error) {
	if caller.Role != auth.RoleSuperadmin {
		return nil, internal.ErrForbidden
	}
	return s.repo.ListByRole(auth.RoleAdmin)
}

// DeleteAdmin removes an admin account. Superadmin-only.
func (s *Service) DeleteAdmin(caller *auth.User, adminID int64) error {
	if caller.Role != auth.RoleSuperadmin {
		return internal.ErrForbidden
	}
	if err := s.repo.DeleteByIDAndRole(adminID, auth.RoleAdmin); err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.ErrUserNotFound
		}
		return err
	}
	s.logger.Info("admin deleted", "admin_id", adminID, "deleted_by", caller.ID)
	return nil
}

// DeleteEmployee removes an employee account. Any admin may delete any
// employee; deletion is not department-scoped.
func (s *Service) DeleteEmployee(caller *auth.User, employeeID int64) error {
	if !caller.Role.AtLeast(auth.RoleAdmin) {
		return internal.ErrForbidden
	}
	if err := s.repo.DeleteByIDAndRole(employeeID, auth.RoleEmployee); err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.ErrUserNotFound
		}
		return err
	}
	s.logger.Info("employee deleted", "employee_id", employeeID, "deleted_by", caller.ID)
	return nil
}

// SuspendEmployee toggles is_active for an employee.
func (s *Service) SuspendEmployee(caller *auth.User, employeeID int64, suspend bool) error {
	if !caller.Role.AtLeast(auth.RoleAdmin) {
		return internal.ErrForbidden
	}
	if err := s.repo.SetActive(employeeID, auth.RoleEmployee, !suspend); err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.ErrUserNotFound
		}
		return err
	}
	s.logger.Info("employee suspension toggled", "employee_id", employeeID, "suspended", suspend, "by", caller.ID)
	return nil
}

// UpdateProfile mutates only the calling principal's own profile
// fields. ErrUserNotFound guards the race where the record vanished
// between authentication and update.
func (s *Service) UpdateProfile(callerID int64, dto UpdateProfileDTO) (*User, error) {
	u, err := s.repo.UpdateProfile(callerID, dto)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// CreateSecurityKey mints a fresh single-use admin invite key.
func (s *Service) CreateSecurityKey(caller *auth.User) (*SecurityKey, error) {
	if !caller.Role.AtLeast(auth.RoleAdmin) {
		return nil, internal.ErrForbidden
	}
	key, err := s.repo.CreateSecurityKey(uuid.NewString())
	if err != nil {
		return nil, internal.NewInternalError("failed to create security key", err)
	}
	s.logger.Info("security key created", "key_id", key.ID, "by", caller.ID)
	return key, nil
}

func (s *Service) ListSecurityKeys(caller *auth.User) ([]*SecurityKey, error) {
	if !caller.Role.AtLeast(auth.RoleAdmin) {
		return nil, internal.ErrForbidden
	}
	return s.repo.ListSecurityKeys()
}

func (s *Service) DeleteSecurityKey(caller *auth.User, keyID int64) error {
	if !caller.Role.AtLeast(auth.RoleAdmin) {
		return internal.ErrForbidden
	}
	if err := s.repo.DeleteSecurityKey(keyID); err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return internal.NewNotFoundError("Security key not found", internal.ErrCodeInvalidSecurityKey)
		}
		return err
	}
	return nil
}
