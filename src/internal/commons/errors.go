package commons

import "errors"

var ErrRecordNotFound = errors.New("Record not found")
var ErrInsufficientBalance = errors.New("Insufficient balance")
var ErrInvalidCredentials = errors.New("Invalid credentials")
var ErrSessionNotFound = errors.New("Session not found")
