package models

import "time"

// Task statuses.
const (
	TaskStatusDraft          = "draft"
	TaskStatusPublished      = "published"
	TaskStatusInConversation = "in_conversation"
	TaskStatusAccepted       = "accepted"
	TaskStatusCompleted      = "completed"
	TaskStatusReviewed       = "reviewed"
	TaskStatusCancelled      = "cancelled"
)

// Urgency tiers, soonest first.
const (
	UrgencyUrgent    = "urgent"
	UrgencyThisWeek  = "this_week"
	UrgencyThisMonth = "this_month"
	UrgencyNextMonth = "next_month"
	UrgencyFlexible  = "flexible"
)

type Task struct {
	ID              int        `json:"id"`
	UserID          int        `json:"user_id"`
	CategoryID      int        `json:"category_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	City            string     `json:"city,omitempty"`
	PostalCode      string     `json:"postal_code,omitempty"`
	Latitude        *float64   `json:"latitude,omitempty"`
	Longitude       *float64   `json:"longitude,omitempty"`
	BudgetMin       *int64     `json:"budget_min,omitempty"`
	BudgetMax       *int64     `json:"budget_max,omitempty"`
	Urgency         string     `json:"urgency"`
	Status          string     `json:"status"`
	TopTier         int        `json:"top_tier,omitempty"`
	TopStartAt      *time.Time `json:"top_start_at,omitempty"`
	TopEndAt        *time.Time `json:"top_end_at,omitempty"`
	AcceptedOfferID *int       `json:"accepted_offer_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
}

// TopActiveTier returns the sponsorship tier if the paid window covers now,
// zero otherwise.
func (t Task) TopActiveTier(now time.Time) int {
	if t.TopTier == 0 || t.TopStartAt == nil || t.TopEndAt == nil {
		return 0
	}
	if now.Before(*t.TopStartAt) || now.After(*t.TopEndAt) {
		return 0
	}
	return t.TopTier
}

// FeedCandidate is a published task together with its current offer count,
// as fetched for feed assembly.
type FeedCandidate struct {
	Task          Task `json:"task"`
	InterestCount int  `json:"interest_count"`
}

type FeedRequest struct {
	ProID         int     `json:"pro_id"`
	CategoryIDs   []int   `json:"category_ids,omitempty"`
	City          string  `json:"city,omitempty"`
	MaxDistanceKM float64 `json:"max_distance_km,omitempty"`
	Limit         int     `json:"limit,omitempty"`
}
