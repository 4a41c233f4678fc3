package model

import "errors"

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrForbidden            = errors.New("you do not have permission to access this notification")
)
