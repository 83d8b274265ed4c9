package model

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleStaff  UserRole = "staff"
	RoleMember UserRole = "member"
)

// RoleLabels display names per role.
var RoleLabels = map[UserRole]string{
	RoleAdmin:  "Admin",
	RoleStaff:  "Instructor",
	RoleMember: "Member",
}

// CanModerate reports whether the role may pin posts.
func (r UserRole) CanModerate() bool {
	return r == RoleAdmin || r == RoleStaff
}

type Profile struct {
	ID          string    `gorm:"primaryKey;size:64" json:"id"`
	Email       string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	FullName    string    `gorm:"size:128;not null" json:"full_name"`
	DisplayName string    `gorm:"size:64" json:"display_name,omitempty"`
	AvatarURL   string    `gorm:"size:512" json:"avatar_url,omitempty"`
	Bio         string    `gorm:"type:text" json:"bio,omitempty"`
	Role        UserRole  `gorm:"size:16;not null;default:'member'" json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
