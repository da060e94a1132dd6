package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrVideoNotFound      = errors.New("video not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUploadFailed       = errors.New("media upload failed")
	ErrMailDelivery       = errors.New("mail delivery failed")
)
