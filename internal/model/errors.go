package model

import "errors"

// Common errors used across the application
var (
	// Player record errors
	ErrRecordNotFound = errors.New("player record not found")
	ErrRecordExists   = errors.New("player record already exists")
	ErrCorruptRecord  = errors.New("player record is corrupt")

	// Save errors
	ErrValidation  = errors.New("validation failed")
	ErrPersistence = errors.New("save failed")
)
