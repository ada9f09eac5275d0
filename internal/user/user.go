package user

import (
	"time"

	"github.com/frahmantamala/bragboard/internal/auth"
	userDatamodel "github.com/frahmantamala/bragboard/internal/core/datamodel/user"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         auth.Role `json:"role"`
	Department   string    `json:"department"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	JoiningDate    *string `json:"joining_date,omitempty"`
	CurrentProject *string `json:"current_project,omitempty"`
	GroupMembers   *string `json:"group_members,omitempty"`
	Skills         *string `json:"skills,omitempty"`
	Experience     *string `json:"experience,omitempty"`
}

type SecurityKey struct {
	ID     int64  `json:"id"`
	Key    string `json:"key"`
	IsUsed bool   `json:"is_used"`
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Name:           u.Name,
		PasswordHash:   u.PasswordHash,
		Role:           string(u.Role),
		Department:     u.Department,
		IsActive:       u.IsActive,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
		JoiningDate:    u.JoiningDate,
		CurrentProject: u.CurrentProject,
		GroupMembers:   u.GroupMembers,
		Skills:         u.Skills,
		Experience:     u.Experience,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Name:           u.Name,
		PasswordHash:   u.PasswordHash,
		Role:           auth.Role(u.Role),
		Department:     u.Department,
		IsActive:       u.IsActive,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
		JoiningDate:    u.JoiningDate,
		CurrentProject: u.CurrentProject,
		GroupMembers:   u.GroupMembers,
		Skills:         u.Skills,
		Experience:     u.Experience,
	}
}

func FromDataModelSlice(users []*userDatamodel.User) []*User {
	result := make([]*User, len(users))
	for i, u := range users {
		result[i] = FromDataModel(u)
	}
	return result
}
