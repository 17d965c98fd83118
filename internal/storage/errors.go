package storage

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or PIN")
	ErrBanned             = errors.New("account is banned")
)
