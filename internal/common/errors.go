// Package common defines shared sentinel errors used across the FileVault
// server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorAlreadyExists = errors.New("already exists")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// Upload validation errors. Safe to surface verbatim.
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrUnsupportedType = errors.New("unsupported media type")

	// Ingestion saga errors.
	ErrUploadIncomplete     = errors.New("upload incomplete")
	ErrMetadataCommitFailed = errors.New("metadata commit failed")

	// Report generation errors.
	ErrRenderFailure = errors.New("render failure")
)
