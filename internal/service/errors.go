package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmptyPassword      = errors.New("password must not be empty")
	ErrInvalidRole        = errors.New("invalid role")
)
