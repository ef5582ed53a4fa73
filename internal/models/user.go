package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscription statuses a manager can hold. Only billing webhook
// processing mutates these.
const (
	SubscriptionInactive = "inactive"
	SubscriptionTrialing = "trialing"
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
	SubscriptionPastDue  = "past_due"
)

const RoleLDManager = "ld_manager"
const RoleEmployee = "employee"

// User is an L&D manager account. CompanyID is nil only inside the
// registration transaction, before the company back-link is written.
type User struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email                string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash         string     `gorm:"not null" json:"-"`
	CompanyID            *uuid.UUID `gorm:"type:uuid;index" json:"company_id"`
	Role                 string     `gorm:"size:20;not null;default:'ld_manager'" json:"role"`
	SubscriptionStatus   string     `gorm:"size:20;not null;default:'inactive'" json:"subscription_status"`
	StripeCustomerID     *string    `gorm:"size:255;uniqueIndex" json:"-"`
	StripeSubscriptionID *string    `gorm:"size:255" json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
}

// HasActiveSubscription reports whether the manager may use gated
// feature routes.
func (u *User) HasActiveSubscription() bool {
	return u.SubscriptionStatus == SubscriptionActive || u.SubscriptionStatus == SubscriptionTrialing
}
