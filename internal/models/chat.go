package models

import "time"

// Chat is the 1:1 conversation attached to an offer. User1 is the task
// owner, user2 the professional.
type Chat struct {
	ID             int       `json:"id"`
	OfferID        int       `json:"offer_id"`
	User1ID        int       `json:"user1_id"`
	User2ID        int       `json:"user2_id"`
	LastActivityAt time.Time `json:"last_activity_at"`
	CreatedAt      time.Time `json:"created_at"`
}
