package repo

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"

	"github.com/dathuynh/watch-store-api/internal/models"
)

// GenerateOtpCode returns a uniformly random 6-digit code, zero-padded.
func GenerateOtpCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// CreateOtp invalidates any prior unused code for the (email, type)
// pair and stores the new one, in a single transaction.
func (r *GormRepo) CreateOtp(ctx context.Context, otp *models.Otp) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ? AND type = ? AND is_used = ?", otp.Email, otp.Type, false).
			Delete(&models.Otp{}).Error; err != nil {
			return err
		}
		return tx.Create(otp).Error
	})
}

// ConsumeOtp marks the matching unused, unexpired record as used and
// returns it. The read and the mark are one conditional UPDATE, so two
// concurrent verifications cannot both succeed. The caller learns only
// ErrInvalidOTP, never which condition failed.
func (r *GormRepo) ConsumeOtp(ctx context.Context, email, code, otpType string) (*models.Otp, error) {
	var consumed models.Otp
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Otp{}).
			Where("email = ? AND code = ? AND type = ? AND is_used = ? AND expires_at > ?",
				email, code, otpType, false, time.Now()).
			Update("is_used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidOTP
		}
		return tx.Where("email = ? AND code = ? AND type = ? AND is_used = ?",
			email, code, otpType, true).
			Order("id DESC").
			First(&consumed).Error
	})
	if err != nil {
		return nil, err
	}
	return &consumed, nil
}

func (r *GormRepo) DeleteOtp(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Delete(&models.Otp{}, id).Error
}
