package entities

import "time"

// User is a VK user profile captured on first contact.
type User struct {
	ID         int64
	VKUserID   int64
	FirstName  string
	LastName   string
	ScreenName string
	PhotoURL   string
	Phone      string
	Email      string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
