package model

import "errors"

// Repository-level errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Service-level errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("too many failed login attempts, please try again later")
	ErrSamePassword       = errors.New("new password cannot be same as current password")
	ErrPasswordMismatch   = errors.New("current password is incorrect")
	ErrUnauthorized       = errors.New("unauthorized access")
)
