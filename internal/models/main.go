// Package models defines the core data structures for users and to-do items.
package models

import "time"

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID int64
	// Username is the login name chosen by the user. Unique across the application.
	Username string
	// Email is the contact address supplied at signup.
	Email string
	// PasswordHash is the bcrypt hash of the user's password.
	// The plaintext password is never persisted.
	PasswordHash string
	// CreatedAt is when the account was created.
	CreatedAt time.Time
}

// Todo is a single to-do item owned by exactly one user.
type Todo struct {
	// ID is the unique identifier for the item.
	ID int64
	// UserID is the owning user. Items are never shared between users.
	UserID int64
	// Name is the short title of the item.
	Name string
	// Description holds the longer free-form text of the item.
	Description string
	// DueDate is the date the item is due.
	DueDate time.Time
	// Status is the current state of the item.
	Status Status
	// Position defines the item's place within its owner's list.
	// Positions are assigned by the store and kept dense, starting at 1.
	Position int
	// CreatedAt is when the item was created.
	CreatedAt time.Time
}

// TodoFields carries the caller-editable attributes of a to-do item.
// Position is deliberately absent: it is owned by the store and changes
// only through create, delete and move operations.
type TodoFields struct {
	Name        string
	Description string
	DueDate     time.Time
	Status      Status
}

// Status defines the set of valid to-do item states.
type Status string

const (
	// StatusPending marks an item that has not been started.
	StatusPending Status = "pending"
	// StatusInProgress marks an item being worked on.
	StatusInProgress Status = "in_progress"
	// StatusDone marks a completed item.
	StatusDone Status = "done"
)

// ValidStatus reports whether s names one of the known to-do states.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}
