package model

import "time"

// Contact is a newsletter subscription left through the contact form.
type Contact struct {
	ID        uint64    `json:"id"`         // contacts.id
	Email     string    `json:"email"`      // contacts.email
	CreatedAt time.Time `json:"created_at"` // contacts.created_at
}
