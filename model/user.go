package model

import "time"

// User is an account row. Agreement flags are captured once at sign-up.
type User struct {
	ID              uint64    `gorm:"primarykey" json:"id"`
	Email           string    `gorm:"unique;not null;size:100" json:"email"`
	Password        string    `gorm:"-" json:"-"`
	PasswordHash    string    `gorm:"not null;size:255" json:"-"`
	Nickname        string    `gorm:"size:100" json:"nickname"`
	ServiceAgreed   bool      `gorm:"not null" json:"service_agreed"`
	PrivacyAgreed   bool      `gorm:"not null" json:"privacy_agreed"`
	MarketingAgreed bool      `json:"marketing_agreed"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DisplayName is what feed cards show for an author: the nickname when set,
// otherwise the local part of the email address.
func (u *User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}
