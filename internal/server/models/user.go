// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an identity record, created once at provisioning and read-only
// afterwards.
type User struct {
	ID           string
	UserName     string
	PasswordHash string
	CreatedAt    time.Time
}
