package models

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"

	ProviderLocal  = "LOCAL"
	ProviderGoogle = "GOOGLE"
)

type User struct {
	ID              uint       `gorm:"primaryKey;autoIncrement"       json:"id"`
	Name            string     `gorm:"not null"                       json:"name"`
	Email           string     `gorm:"uniqueIndex;not null"           json:"email"`
	PasswordHash    string     `json:"-"`
	Phone           string     `json:"phone"`
	AvatarURL       string     `json:"avatar_url"`
	Provider        string     `gorm:"not null;default:LOCAL"         json:"provider"`
	ProviderID      string     `json:"-"`
	Role            string     `gorm:"not null;default:USER"          json:"role"`
	IsActive        bool       `gorm:"not null;default:true"          json:"is_active"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"           json:"id"`
	UserID    uint   `gorm:"index;not null"       json:"user_id"`
	TokenHash string `gorm:"uniqueIndex;not null" json:"-"`
	JTI       string `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt int64  `gorm:"not null"             json:"expires_at"`
	Revoked   bool   `gorm:"not null;default:false" json:"revoked"`
}
