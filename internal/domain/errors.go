package domain

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrAccountNotSet   = errors.New("payout account not set")
	ErrBelowMinimum    = errors.New("balance below withdrawal minimum")
	ErrAlreadyCredited = errors.New("already credited today")
	ErrCapReached      = errors.New("credit cap reached for task")
)
