package models

import "time"

// Message is one entry in a chat. System messages are authored by the
// platform during acceptance/rejection fan-out and carry sender_id 0.
type Message struct {
	ID         string    `json:"id"`
	ChatID     int       `json:"chat_id"`
	SenderID   int       `json:"sender_id"`
	ReceiverID int       `json:"receiver_id"`
	Text       string    `json:"text"`
	System     bool      `json:"system,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
