package fsm

import (
	"naimuBack/internal/models"
)

var taskTransitions = map[string]map[string]struct{}{
	models.TaskStatusDraft: {
		models.TaskStatusPublished: {},
		models.TaskStatusCancelled: {},
	},
	models.TaskStatusPublished: {
		models.TaskStatusInConversation: {},
		models.TaskStatusAccepted:       {},
		models.TaskStatusCancelled:      {},
	},
	models.TaskStatusInConversation: {
		models.TaskStatusAccepted:  {},
		models.TaskStatusCancelled: {},
	},
	models.TaskStatusAccepted: {
		models.TaskStatusCompleted: {},
		models.TaskStatusCancelled: {},
	},
	models.TaskStatusCompleted: {
		models.TaskStatusReviewed: {},
	},
	models.TaskStatusReviewed:  {},
	models.TaskStatusCancelled: {},
}

var offerTransitions = map[string]map[string]struct{}{
	models.OfferStatusPending: {
		models.OfferStatusViewed:    {},
		models.OfferStatusAccepted:  {},
		models.OfferStatusRejected:  {},
		models.OfferStatusWithdrawn: {},
	},
	models.OfferStatusViewed: {
		models.OfferStatusAccepted:  {},
		models.OfferStatusRejected:  {},
		models.OfferStatusWithdrawn: {},
	},
	models.OfferStatusAccepted:  {},
	models.OfferStatusRejected:  {},
	models.OfferStatusWithdrawn: {},
}

// TaskCanTransition returns whether a task can move from one status to another.
func TaskCanTransition(from, to string) bool {
	allowed, ok := taskTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// OfferCanTransition returns whether an offer can move from one status to another.
func OfferCanTransition(from, to string) bool {
	allowed, ok := offerTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}

// TaskTerminal reports whether no further transitions exist for the status.
func TaskTerminal(status string) bool {
	return len(taskTransitions[status]) == 0
}

// OfferTerminal reports whether the offer status is final.
func OfferTerminal(status string) bool {
	return len(offerTransitions[status]) == 0
}

// TaskBiddable reports whether new offers may be created for a task in the
// given status. The first offer moves a task to in_conversation, later
// offers keep arriving until one is accepted.
func TaskBiddable(status string) bool {
	return status == models.TaskStatusPublished || status == models.TaskStatusInConversation
}

// TaskAcceptingOffers reports whether an offer on the task may still be
// accepted by the owner.
func TaskAcceptingOffers(status string) bool {
	return status == models.TaskStatusPublished || status == models.TaskStatusInConversation
}

// OfferAcceptable reports whether the offer itself may still be accepted.
func OfferAcceptable(status string) bool {
	return status == models.OfferStatusPending || status == models.OfferStatusViewed
}
