package models

import "time"

const (
	OtpTypeRegister       = "REGISTER"
	OtpTypeForgotPassword = "FORGOT_PASSWORD"

	OtpTTL = 5 * time.Minute
)

// Otp holds one issued code. For registration the not-yet-created
// user's name and password hash are staged here until verification.
type Otp struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"        json:"id"`
	Email        string    `gorm:"index:idx_otp_email_type;not null" json:"email"`
	Name         string    `json:"-"`
	PasswordHash string    `json:"-"`
	Code         string    `gorm:"not null"                        json:"-"`
	Type         string    `gorm:"index:idx_otp_email_type;not null" json:"type"`
	IsUsed       bool      `gorm:"not null;default:false"          json:"is_used"`
	ExpiresAt    time.Time `gorm:"not null"                        json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (o *Otp) Expired(now time.Time) bool {
	return o.ExpiresAt.Before(now)
}
