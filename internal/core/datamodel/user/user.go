package user

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"column:username;uniqueIndex;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Name         string    `gorm:"column:name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;not null;default:employee"`
	Department   string    `gorm:"column:department;not null"`
	IsActive     bool      `gorm:"column:is_active;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`

	// profile fields, all optional
	JoiningDate    *string `gorm:"column:joining_date"`
	CurrentProject *string `gorm:"column:current_project"`
	GroupMembers   *string `gorm:"column:group_members"`
	Skills         *string `gorm:"column:skills"`
	Experience     *string `gorm:"column:experience"`
}

func (User) TableName() string {
	return "users"
}

// SecurityKey is a single-use invite code that gates admin
// self-registration. Once is_used flips to true it can never be
// consumed again.
type SecurityKey struct {
	ID     int64  `gorm:"primaryKey"`
	Key    string `gorm:"column:key;uniqueIndex;not null"`
	IsUsed bool   `gorm:"column:is_used;default:false"`
}

func (SecurityKey) TableName() string {
	return "security_keys"
}
