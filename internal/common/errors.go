// Package common contains shared constants and sentinel errors used across
// the wiki backend components.
package common

import "errors"

var (

	// storage-layer errors
	ErrorNotFound    = errors.New("not found")
	ErrorCorruptData = errors.New("corrupt data")
	ErrorStorage     = errors.New("storage error")

	// faq-specific errors
	ErrorOutOfRange = errors.New("question index out of range")

	// session-specific errors
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorInvalidToken = errors.New("invalid token")
)
