package models

import "time"

// Offer statuses.
const (
	OfferStatusPending   = "pending"
	OfferStatusViewed    = "viewed"
	OfferStatusAccepted  = "accepted"
	OfferStatusRejected  = "rejected"
	OfferStatusWithdrawn = "withdrawn"
)

// Offer amount kinds. Amount is stored in minor currency units; zero with
// kind "to_discuss" means no quote yet.
const (
	AmountKindFixed     = "fixed"
	AmountKindEstimate  = "estimate"
	AmountKindHourly    = "hourly"
	AmountKindToDiscuss = "to_discuss"
)

type Offer struct {
	ID         int        `json:"id"`
	TaskID     int        `json:"task_id"`
	ProID      int        `json:"pro_id"`
	Amount     int64      `json:"amount"`
	AmountKind string     `json:"amount_kind"`
	Message    string     `json:"message"`
	Status     string     `json:"status"`
	ChatID     int        `json:"chat_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ViewedAt   *time.Time `json:"viewed_at,omitempty"`
}

// RejectedOffer identifies a competing offer auto-rejected during acceptance,
// with enough context for the fan-out.
type RejectedOffer struct {
	OfferID int
	ProID   int
	ChatID  int
}

type AcceptResult struct {
	Task          Task `json:"task"`
	RejectedCount int  `json:"rejected_count"`
}
