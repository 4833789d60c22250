package service

import (
	"errors"

	"github.com/dathuynh/watch-store-api/internal/repo"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")

	// Re-exported repo sentinels so handlers depend on one package.
	ErrInvalidCredentials = repo.ErrInvalidCredentials
	ErrEmailTaken         = repo.ErrEmailTaken
	ErrInvalidOTP         = repo.ErrInvalidOTP
	ErrCartEmpty          = repo.ErrCartEmpty
	ErrInsufficientStock  = repo.ErrInsufficientStock
	ErrInvalidTransition  = repo.ErrInvalidTransition
	ErrNotCancellable     = repo.ErrNotCancellable
)
