package user

import (
	"errors"
	"strings"

	"github.com/frahmantamala/bragboard/internal/auth"
)

// RegisterDTO is the self-registration payload. SecurityKey is only
// required when Role is admin.
type RegisterDTO struct {
	Username    string `json:"username"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role"`
	Department  string `json:"department"`
	SecurityKey string `json:"security_key,omitempty"`
}

func (d RegisterDTO) Validate() error {
	if d.Username == "" {
		return errors.New("username is required")
	}
	if d.Email == "" || !strings.Contains(d.Email, "@") {
		return errors.New("a valid email is required")
	}
	if d.Password == "" {
		return errors.New("password is required")
	}
	if d.Department == "" {
		return errors.New("department is required")
	}
	// superadmin accounts are seeded out-of-band, never self-registered
	switch auth.Role(d.Role) {
	case auth.RoleEmployee, auth.RoleAdmin:
		return nil
	default:
		return errors.New("role must be employee or admin")
	}
}

type UpdateProfileDTO struct {
	JoiningDate    *string `json:"joining_date,omitempty"`
	CurrentProject *string `json:"current_project,omitempty"`
	GroupMembers   *string `json:"group_members,omitempty"`
	Skills         *string `json:"skills,omitempty"`
	Experience     *string `json:"experience,omitempty"`
}

type SuspendDTO struct {
	Suspend bool `json:"suspend"`
}
