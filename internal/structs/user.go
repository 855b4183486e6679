package structs

import "time"

// CompanyInfo is the employer sub-profile.
type CompanyInfo struct {
	CompanyName string `bson:"company_name" json:"company_name" validate:"omitempty,max=100"`
	CompanySize string `bson:"company_size" json:"company_size" validate:"omitempty,oneof=1-10 11-50 51-200 201-500 500+"`
	Website     string `bson:"website" json:"website" validate:"omitempty,url"`
	Address     string `bson:"address" json:"address" validate:"omitempty,max=200"`
	Description string `bson:"description" json:"description" validate:"omitempty,max=1000"`
}

// User is an account.
type User struct {
	ID           string       `bson:"_id" json:"id"`
	Name         string       `bson:"name" json:"name"`
	Email        string       `bson:"email" json:"email"`
	Phone        string       `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash string       `bson:"password_hash,omitempty" json:"-"`
	Role         Role         `bson:"role" json:"role"`
	AuthProvider AuthProvider `bson:"auth_provider" json:"auth_provider"`
	CompanyInfo  *CompanyInfo `bson:"company_info,omitempty" json:"company_info,omitempty"`
	CreatedAt    time.Time    `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `bson:"updated_at" json:"updated_at"`
}

// Contact is the subset of a user used in messages.
type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Contact returns the contact card of u.
func (u *User) Contact() Contact {
	return Contact{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

// RegisterRequest creates a local account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,phone10"`
	Password string `json:"password" validate:"required,min=8,max=32"`
	Role     Role   `json:"role" validate:"required,oneof='Job Seeker' Employer"`
}

// LoginRequest authenticates a local account.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     Role   `json:"role" validate:"required"`
}

// UpdateProfileRequest changes profile fields. Nil fields are left as is.
type UpdateProfileRequest struct {
	Name            *string      `json:"name,omitempty" validate:"omitempty,min=3,max=30"`
	Email           *string      `json:"email,omitempty" validate:"omitempty,email"`
	Phone           *string      `json:"phone,omitempty" validate:"omitempty,phone10"`
	CompanyInfo     *CompanyInfo `json:"company_info,omitempty"`
	CurrentPassword string       `json:"current_password,omitempty"`
	NewPassword     string       `json:"new_password,omitempty" validate:"omitempty,min=8,max=32"`
}

// CreateAdminRequest seeds an admin account from the CLI.
type CreateAdminRequest struct {
	Name     string `validate:"required,min=3,max=30"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=32"`
}

// AuthResult is returned on login and registration.
type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// Stats summarizes the board for admins.
type Stats struct {
	Users struct {
		Total     int64 `json:"total"`
		JobSeeker int64 `json:"job_seekers"`
		Employers int64 `json:"employers"`
		Admins    int64 `json:"admins"`
	} `json:"users"`
	Jobs struct {
		Total    int64 `json:"total"`
		Pending  int64 `json:"pending"`
		Approved int64 `json:"approved"`
		Rejected int64 `json:"rejected"`
	} `json:"jobs"`
	Applications int64 `json:"applications"`
}
