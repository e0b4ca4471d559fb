package domain

import "errors"

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrBackendUnavailable = errors.New("backend unavailable")
var ErrModelExhausted = errors.New("completion backend exhausted")
var ErrRateLimited = errors.New("daily message limit reached")
var ErrInvalidUnlockCode = errors.New("invalid unlock code")
var ErrEmptyMessage = errors.New("empty message")
