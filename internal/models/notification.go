package models

import "time"

// Notification kinds.
const (
	NotificationOfferAccepted = "offer_accepted"
	NotificationOfferRejected = "offer_rejected"
)

// Notification is a fire-and-forget record of a user-facing event. It is
// written outside the acceptance transaction, best effort.
type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Kind      string    `json:"kind"`
	TaskID    int       `json:"task_id"`
	OfferID   int       `json:"offer_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
