package dto

import "github.com/google/uuid"

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"companyName"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type EmployeeLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Email              string     `json:"email,omitempty"`
	Username           string     `json:"username,omitempty"`
	Name               string     `json:"name,omitempty"`
	Role               string     `json:"role"`
	CompanyID          *uuid.UUID `json:"company_id"`
	CompanyName        string     `json:"company_name,omitempty"`
	SubscriptionStatus string     `json:"subscription_status,omitempty"`
	Token              string     `json:"token"`
}

type ProfileResponse struct {
	ID                 uuid.UUID       `json:"id"`
	Type               string          `json:"type"`
	Email              string          `json:"email,omitempty"`
	Username           string          `json:"username,omitempty"`
	Name               string          `json:"name,omitempty"`
	Role               string          `json:"role"`
	CompanyID          *uuid.UUID      `json:"company_id"`
	Company            *CompanySummary `json:"company,omitempty"`
	SubscriptionStatus string          `json:"subscription_status,omitempty"`
	HasStripeCustomer  bool            `json:"has_stripe_customer,omitempty"`
}

type CompanySummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// UpdateProfileRequest carries the fields a manager may change on their
// own account. Empty fields are left untouched.
type UpdateProfileRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type UserResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Email              string     `json:"email"`
	Role               string     `json:"role"`
	CompanyID          *uuid.UUID `json:"company_id"`
	SubscriptionStatus string     `json:"subscription_status"`
}
