package model

import (
	"time"
)

type UserRole string

const (
	Admin  UserRole = "admin"
	Editor UserRole = "editor"
)

// swagger:model AdminUser
type AdminUser struct {
	BaseModel
	Name      string     `gorm:"size:100;not null" json:"name"`
	Email     string     `gorm:"size:100;unique;not null" json:"email"`
	Password  string     `gorm:"size:100;not null" json:"-"`
	Role      UserRole   `gorm:"size:20;default:'editor'" json:"role"`
	Disabled  bool       `gorm:"default:false" json:"disabled"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

func (AdminUser) TableName() string {
	return "admin_users"
}
