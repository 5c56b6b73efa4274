package model

import "time"

type ContactStatus string

const (
	ContactNew     ContactStatus = "new"
	ContactHandled ContactStatus = "handled"
)

// swagger:model Contact
type Contact struct {
	BaseModel
	Name      string        `gorm:"size:100;not null" json:"name"`
	Email     string        `gorm:"size:150;not null" json:"email"`
	Company   string        `gorm:"size:150" json:"company"`
	Phone     string        `gorm:"size:50" json:"phone"`
	Message   string        `gorm:"type:text;not null" json:"message"`
	Source    string        `gorm:"size:50" json:"source"`
	Status    ContactStatus `gorm:"size:20;index;default:'new'" json:"status"`
	HandledAt *time.Time    `json:"handledAt,omitempty"`
}

func (Contact) TableName() string {
	return "contacts"
}
