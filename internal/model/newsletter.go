package model

import "time"

type SubscriberStatus string

const (
	SubscriberActive       SubscriberStatus = "active"
	SubscriberUnsubscribed SubscriberStatus = "unsubscribed"
)

// swagger:model NewsletterSubscriber
type NewsletterSubscriber struct {
	BaseModel
	Email          string           `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Name           string           `gorm:"size:100" json:"name"`
	Status         SubscriberStatus `gorm:"size:20;index;default:'active'" json:"status"`
	Token          string           `gorm:"size:36;uniqueIndex" json:"-"`
	Source         string           `gorm:"size:50" json:"source"`
	SubscribedAt   time.Time        `json:"subscribedAt"`
	UnsubscribedAt *time.Time       `json:"unsubscribedAt,omitempty"`
}

func (NewsletterSubscriber) TableName() string {
	return "newsletter_subscribers"
}
