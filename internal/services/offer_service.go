package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"naimuBack/internal/models"
	"naimuBack/internal/notify"
)

// Interfaces cover exactly what the offer lifecycle consumes, so the
// orchestration can be exercised with stubs.

type offersStore interface {
	CreateOfferWithChat(ctx context.Context, offer models.Offer) (models.Offer, error)
	GetOfferByID(ctx context.Context, id int) (models.Offer, error)
	GetOffersByTaskID(ctx context.Context, taskID int) ([]models.Offer, error)
	MarkViewed(ctx context.Context, id int) error
	UpdateStatusCAS(ctx context.Context, id int, toStatus string) error
	Accept(ctx context.Context, offerID, actorID int) (models.Task, []models.RejectedOffer, error)
}

type tasksStore interface {
	GetTaskByID(ctx context.Context, id int) (models.Task, error)
}

type chatsStore interface {
	AddSystemMessage(ctx context.Context, chatID, receiverID int, text string) (models.Message, error)
}

type notificationsStore interface {
	CreateNotification(ctx context.Context, n models.Notification) (models.Notification, error)
}

type emailSource interface {
	EmailByID(ctx context.Context, id int) (string, error)
}

// Enqueuer hands fan-out payloads to the outbound queue.
type Enqueuer interface {
	OfferAccepted(ctx context.Context, p notify.OfferAcceptedPayload) error
	OfferRejected(ctx context.Context, p notify.OfferRejectedPayload) error
}

// MessagePusher delivers a chat message to an online user, best effort.
type MessagePusher interface {
	PushMessage(userID int, msg models.Message)
}

const fanOutTimeout = 30 * time.Second

// OfferService drives the offer state machine and the acceptance fan-out.
type OfferService struct {
	Offers        offersStore
	Tasks         tasksStore
	Chats         chatsStore
	Notifications notificationsStore
	Emails        emailSource
	Queue         Enqueuer
	Pusher        MessagePusher
	ErrorLog      *log.Logger
}

// CreateOffer validates the quote and creates the offer together with its
// chat in one transaction.
func (s *OfferService) CreateOffer(ctx context.Context, offer models.Offer) (models.Offer, error) {
	switch offer.AmountKind {
	case models.AmountKindFixed, models.AmountKindEstimate, models.AmountKindHourly, models.AmountKindToDiscuss:
	case "":
		if offer.Amount == 0 {
			offer.AmountKind = models.AmountKindToDiscuss
		} else {
			offer.AmountKind = models.AmountKindFixed
		}
	default:
		return models.Offer{}, fmt.Errorf("unknown amount kind %q", offer.AmountKind)
	}
	return s.Offers.CreateOfferWithChat(ctx, offer)
}

// ViewOffer stamps viewed_at on first open by the task owner. Repeat calls
// are no-ops and keep the original stamp.
func (s *OfferService) ViewOffer(ctx context.Context, offerID, actorID int) (models.Offer, error) {
	offer, err := s.Offers.GetOfferByID(ctx, offerID)
	if err != nil {
		return models.Offer{}, err
	}
	task, err := s.Tasks.GetTaskByID(ctx, offer.TaskID)
	if err != nil {
		return models.Offer{}, err
	}
	if task.UserID != actorID {
		return models.Offer{}, models.ErrForbidden
	}
	if offer.Status != models.OfferStatusPending {
		return offer, nil
	}
	if err := s.Offers.MarkViewed(ctx, offerID); err != nil {
		return models.Offer{}, err
	}
	return s.Offers.GetOfferByID(ctx, offerID)
}

// AcceptOffer runs the atomic acceptance and fires the fan-out. The fan-out
// never blocks the caller and never rolls back the committed transition.
func (s *OfferService) AcceptOffer(ctx context.Context, offerID, actorID int) (models.AcceptResult, error) {
	task, rejected, err := s.Offers.Accept(ctx, offerID, actorID)
	if err != nil {
		return models.AcceptResult{}, err
	}

	winner, err := s.Offers.GetOfferByID(ctx, offerID)
	if err != nil {
		// The transition is committed; the caller still gets its result.
		s.ErrorLog.Printf("accept fan-out: reload offer %d failed: %v", offerID, err)
		winner = models.Offer{ID: offerID, TaskID: task.ID}
	}

	go s.fanOut(task, winner, rejected)

	return models.AcceptResult{Task: task, RejectedCount: len(rejected)}, nil
}

// RejectOffer lets the task owner decline an offer.
func (s *OfferService) RejectOffer(ctx context.Context, offerID, actorID int) (models.Offer, error) {
	offer, err := s.Offers.GetOfferByID(ctx, offerID)
	if err != nil {
		return models.Offer{}, err
	}
	task, err := s.Tasks.GetTaskByID(ctx, offer.TaskID)
	if err != nil {
		return models.Offer{}, err
	}
	if task.UserID != actorID {
		return models.Offer{}, models.ErrForbidden
	}
	if err := s.Offers.UpdateStatusCAS(ctx, offerID, models.OfferStatusRejected); err != nil {
		return models.Offer{}, err
	}
	offer.Status = models.OfferStatusRejected
	return offer, nil
}

// WithdrawOffer lets the offering professional pull out, unless the offer
// already won.
func (s *OfferService) WithdrawOffer(ctx context.Context, offerID, actorID int) (models.Offer, error) {
	offer, err := s.Offers.GetOfferByID(ctx, offerID)
	if err != nil {
		return models.Offer{}, err
	}
	if offer.ProID != actorID {
		return models.Offer{}, models.ErrForbidden
	}
	if offer.Status == models.OfferStatusAccepted {
		return models.Offer{}, models.ErrInvalidState
	}
	if err := s.Offers.UpdateStatusCAS(ctx, offerID, models.OfferStatusWithdrawn); err != nil {
		return models.Offer{}, err
	}
	offer.Status = models.OfferStatusWithdrawn
	return offer, nil
}

func (s *OfferService) GetOffersByTaskID(ctx context.Context, taskID, actorID int) ([]models.Offer, error) {
	task, err := s.Tasks.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != actorID {
		return nil, models.ErrForbidden
	}
	return s.Offers.GetOffersByTaskID(ctx, taskID)
}

// fanOut runs the post-commit side effects: chat system messages,
// notification records, queued emails and pushes. Every send is independent
// and best effort; failures are logged and swallowed.
func (s *OfferService) fanOut(task models.Task, winner models.Offer, rejected []models.RejectedOffer) {
	ctx, cancel := context.WithTimeout(context.Background(), fanOutTimeout)
	defer cancel()

	acceptedText := fmt.Sprintf("The client accepted this offer for %q.", task.Title)
	rejectedText := fmt.Sprintf("The client chose another offer for %q.", task.Title)

	if winner.ChatID != 0 {
		if msg, err := s.Chats.AddSystemMessage(ctx, winner.ChatID, winner.ProID, acceptedText); err != nil {
			s.ErrorLog.Printf("accept fan-out: winner chat message failed: %v", err)
		} else if s.Pusher != nil {
			s.Pusher.PushMessage(winner.ProID, msg)
		}
	}
	s.notifyPro(ctx, task, winner.ID, winner.ProID, winner.Amount, models.NotificationOfferAccepted)

	for _, ro := range rejected {
		if ro.ChatID != 0 {
			if msg, err := s.Chats.AddSystemMessage(ctx, ro.ChatID, ro.ProID, rejectedText); err != nil {
				s.ErrorLog.Printf("accept fan-out: rejection chat message for offer %d failed: %v", ro.OfferID, err)
			} else if s.Pusher != nil {
				s.Pusher.PushMessage(ro.ProID, msg)
			}
		}
		s.notifyPro(ctx, task, ro.OfferID, ro.ProID, 0, models.NotificationOfferRejected)
	}
}

func (s *OfferService) notifyPro(ctx context.Context, task models.Task, offerID, proID int, amount int64, kind string) {
	title := "Your offer was accepted"
	if kind == models.NotificationOfferRejected {
		title = "The task went to another professional"
	}
	if _, err := s.Notifications.CreateNotification(ctx, models.Notification{
		UserID:  proID,
		Kind:    kind,
		TaskID:  task.ID,
		OfferID: offerID,
		Title:   title,
		Body:    task.Title,
	}); err != nil {
		s.ErrorLog.Printf("accept fan-out: notification for user %d failed: %v", proID, err)
	}

	email, err := s.Emails.EmailByID(ctx, proID)
	if err != nil {
		s.ErrorLog.Printf("accept fan-out: email lookup for user %d failed: %v", proID, err)
		email = ""
	}

	if kind == models.NotificationOfferAccepted {
		err = s.Queue.OfferAccepted(ctx, notify.OfferAcceptedPayload{
			EventID:   uuid.New().String(),
			UserID:    proID,
			TaskID:    task.ID,
			OfferID:   offerID,
			TaskTitle: task.Title,
			Amount:    amount,
			Envelope:  notify.AcceptedEnvelope(email, task.Title),
			SentAt:    time.Now(),
		})
	} else {
		err = s.Queue.OfferRejected(ctx, notify.OfferRejectedPayload{
			EventID:   uuid.New().String(),
			UserID:    proID,
			TaskID:    task.ID,
			OfferID:   offerID,
			TaskTitle: task.Title,
			Envelope:  notify.RejectedEnvelope(email, task.Title),
			SentAt:    time.Now(),
		})
	}
	if err != nil {
		s.ErrorLog.Printf("accept fan-out: enqueue %s for user %d failed: %v", kind, proID, err)
	}
}
