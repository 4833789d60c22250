package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dathuynh/watch-store-api/internal/models"
	"github.com/dathuynh/watch-store-api/internal/tokens"
)

func (r *GormRepo) StoreRefreshToken(ctx context.Context, userID uint, rawToken, jti string, expiresAt time.Time) error {
	return r.DB.WithContext(ctx).Create(&models.RefreshToken{
		UserID:    userID,
		TokenHash: tokens.Sha256Hex(rawToken),
		JTI:       jti,
		ExpiresAt: expiresAt.Unix(),
	}).Error
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, rawToken string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokens.Sha256Hex(rawToken)).
		Update("revoked", true).Error
}

// RevokeUserTokens kills every live session of the user, used after a
// password reset.
func (r *GormRepo) RevokeUserTokens(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
}

func (r *GormRepo) refreshUsable(db *gorm.DB, jti string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := db.Where("jti = ?", jti).First(&token).Error; err != nil {
		return nil, err
	}
	if token.Revoked || token.ExpiresAt < time.Now().Unix() {
		return nil, errors.New("token expired or revoked")
	}
	return &token, nil
}

// RotateRefreshToken revokes the old token and stores the new one in a
// single transaction so a stolen old token cannot race the rotation.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI string, userID uint, newRawToken, newJTI string, expiresAt time.Time) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		old, err := r.refreshUsable(tx, oldJTI)
		if err != nil {
			return err
		}
		if old.UserID != userID {
			return errors.New("token user mismatch")
		}
		if err := tx.Model(&models.RefreshToken{}).
			Where("jti = ?", oldJTI).
			Update("revoked", true).Error; err != nil {
			return err
		}
		return tx.Create(&models.RefreshToken{
			UserID:    userID,
			TokenHash: tokens.Sha256Hex(newRawToken),
			JTI:       newJTI,
			ExpiresAt: expiresAt.Unix(),
		}).Error
	})
}
