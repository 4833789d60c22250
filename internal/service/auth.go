package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/dathuynh/watch-store-api/internal/events"
	"github.com/dathuynh/watch-store-api/internal/hash"
	"github.com/dathuynh/watch-store-api/internal/logging"
	"github.com/dathuynh/watch-store-api/internal/mailer"
	"github.com/dathuynh/watch-store-api/internal/models"
	"github.com/dathuynh/watch-store-api/internal/oauth"
	"github.com/dathuynh/watch-store-api/internal/repo"
	"github.com/dathuynh/watch-store-api/internal/tokens"
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	Mailer        mailer.Mailer
	Google        *oauth.GoogleClient
	Events        *events.Producer
}

type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*LoginResult, error) {
	sub := strconv.FormatUint(uint64(user.ID), 10)

	accessExp := time.Now().Add(tokens.AccessTTL)
	accessToken, err := tokens.NewAccessToken(sub, user.Role, accessExp, s.JWTSecret)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(tokens.RefreshTTL)
	refreshToken, jti, err := tokens.NewRefreshToken(sub, refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.StoreRefreshToken(ctx, user.ID, refreshToken, jti, refreshExp); err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.Repo.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	return s.Repo.GetUserByID(ctx, userID)
}

// Refresh rotates the refresh token and returns a fresh pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.Repo.GetUserByID(ctx, uint(userID))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	refreshExp := time.Now().Add(tokens.RefreshTTL)
	newRefresh, jti, err := tokens.NewRefreshToken(claims.Subject, refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, user.ID, newRefresh, jti, refreshExp); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessExp := time.Now().Add(tokens.AccessTTL)
	accessToken, err := tokens.NewAccessToken(claims.Subject, user.Role, accessExp, s.JWTSecret)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}

// SendRegisterOtp stages the pending registration on the OTP record:
// no user row exists until the code is verified.
func (s *AuthService) SendRegisterOtp(ctx context.Context, name, email, password string) error {
	taken, err := s.Repo.EmailTaken(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return err
	}
	code, err := repo.GenerateOtpCode()
	if err != nil {
		return err
	}

	otp := &models.Otp{
		Email:        email,
		Name:         name,
		PasswordHash: pwHash,
		Code:         code,
		Type:         models.OtpTypeRegister,
		ExpiresAt:    time.Now().Add(models.OtpTTL),
	}
	if err := s.Repo.CreateOtp(ctx, otp); err != nil {
		return err
	}

	if err := s.Mailer.SendOtp(email, code, models.OtpTypeRegister); err != nil {
		// The user never saw this code; a dead row would only block
		// the retry window.
		if delErr := s.Repo.DeleteOtp(ctx, otp.ID); delErr != nil {
			logging.FromContext(ctx).Error("otp_cleanup_failed", "error", delErr)
		}
		return fmt.Errorf("send otp mail: %w", err)
	}
	return nil
}

// VerifyRegisterOtp consumes the code and materializes the user from
// the staged fields.
func (s *AuthService) VerifyRegisterOtp(ctx context.Context, email, code string) (*LoginResult, error) {
	otp, err := s.Repo.ConsumeOtp(ctx, email, code, models.OtpTypeRegister)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &models.User{
		Name:            otp.Name,
		Email:           otp.Email,
		PasswordHash:    otp.PasswordHash,
		Provider:        models.ProviderLocal,
		Role:            models.RoleUser,
		IsActive:        true,
		EmailVerifiedAt: &now,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.publishUserEvent(ctx, map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	}, user.ID)

	return s.issueTokens(ctx, user)
}

func (s *AuthService) SendForgotPasswordOtp(ctx context.Context, email string) error {
	if _, err := s.Repo.GetUserByEmail(ctx, email); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: email not registered", ErrValidation)
		}
		return err
	}

	code, err := repo.GenerateOtpCode()
	if err != nil {
		return err
	}
	otp := &models.Otp{
		Email:     email,
		Code:      code,
		Type:      models.OtpTypeForgotPassword,
		ExpiresAt: time.Now().Add(models.OtpTTL),
	}
	if err := s.Repo.CreateOtp(ctx, otp); err != nil {
		return err
	}

	if err := s.Mailer.SendOtp(email, code, models.OtpTypeForgotPassword); err != nil {
		if delErr := s.Repo.DeleteOtp(ctx, otp.ID); delErr != nil {
			logging.FromContext(ctx).Error("otp_cleanup_failed", "error", delErr)
		}
		return fmt.Errorf("send otp mail: %w", err)
	}
	return nil
}

// ResetPassword consumes the code, replaces the credential and revokes
// every live session of the user.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if _, err := s.Repo.ConsumeOtp(ctx, email, code, models.OtpTypeForgotPassword); err != nil {
		return err
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.SetPassword(ctx, user.ID, pwHash); err != nil {
		return err
	}
	return s.Repo.RevokeUserTokens(ctx, user.ID)
}

func (s *AuthService) GoogleAuthURL(state string) (string, error) {
	if s.Google == nil {
		return "", fmt.Errorf("%w: google login is not configured", ErrValidation)
	}
	return s.Google.AuthURL(state), nil
}

// GoogleCallback upserts the account for the Google profile and logs
// it in. An existing local account gets linked on first OAuth login.
func (s *AuthService) GoogleCallback(ctx context.Context, code string) (*LoginResult, error) {
	if s.Google == nil {
		return nil, fmt.Errorf("%w: google login is not configured", ErrValidation)
	}
	profile, err := s.Google.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user, err := s.Repo.GetUserByEmail(ctx, profile.Email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &models.User{
			Name:            profile.Name,
			Email:           profile.Email,
			AvatarURL:       profile.Picture,
			Provider:        models.ProviderGoogle,
			ProviderID:      profile.ID,
			Role:            models.RoleUser,
			IsActive:        true,
			EmailVerifiedAt: &now,
		}
		if err := s.Repo.CreateUser(ctx, user); err != nil {
			return nil, err
		}
		s.publishUserEvent(ctx, map[string]any{
			"type":    "user_registered",
			"user_id": user.ID,
			"email":   user.Email,
		}, user.ID)
	case err != nil:
		return nil, err
	default:
		if user.ProviderID == "" {
			user.Provider = models.ProviderGoogle
			user.ProviderID = profile.ID
			user.AvatarURL = profile.Picture
			user.EmailVerifiedAt = &now
			if err := s.Repo.UpdateUser(ctx, user); err != nil {
				return nil, err
			}
		}
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(ctx, user)
}

func (s *AuthService) publishUserEvent(ctx context.Context, event map[string]any, userID uint) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Events.PublishEvent(pubCtx, events.TopicUserEvents, strconv.FormatUint(uint64(userID), 10), event); err != nil {
		logging.FromContext(ctx).Error("kafka_publish_failed", "topic", events.TopicUserEvents, "error", err)
	}
}
