package notify

import "time"

// Asynq task type names.
const (
	TaskOfferAccepted = "notify:offer_accepted"
	TaskOfferRejected = "notify:offer_rejected"
)

// QueueName is the queue all fan-out tasks go to.
const QueueName = "notify"

// EmailEnvelope is the rendered email carried inside a payload.
type EmailEnvelope struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// OfferAcceptedPayload notifies the winning professional.
type OfferAcceptedPayload struct {
	EventID   string        `json:"event_id"`
	UserID    int           `json:"user_id"`
	TaskID    int           `json:"task_id"`
	OfferID   int           `json:"offer_id"`
	TaskTitle string        `json:"task_title"`
	Amount    int64         `json:"amount"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}

// OfferRejectedPayload notifies a losing professional.
type OfferRejectedPayload struct {
	EventID   string        `json:"event_id"`
	UserID    int           `json:"user_id"`
	TaskID    int           `json:"task_id"`
	OfferID   int           `json:"offer_id"`
	TaskTitle string        `json:"task_title"`
	Envelope  EmailEnvelope `json:"envelope"`
	SentAt    time.Time     `json:"sent_at"`
}
