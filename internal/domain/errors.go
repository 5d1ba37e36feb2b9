package domain

import "errors"

// Expected, user-correctable failures. Handlers map these to 4xx responses;
// anything else is an internal failure. None of them leave a partial
// mutation behind.
var (
	ErrInvalidSymbol      = errors.New("invalid symbol")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrQuoteUnavailable   = errors.New("quote unavailable")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
)
