package services

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"naimuBack/internal/models"
	"naimuBack/internal/notify"
)

type stubOffers struct {
	offers       map[int]models.Offer
	acceptTask   models.Task
	acceptLosers []models.RejectedOffer
	acceptErr    error

	viewed   []int
	casCalls []string
	created  []models.Offer
}

func (s *stubOffers) CreateOfferWithChat(_ context.Context, offer models.Offer) (models.Offer, error) {
	offer.ID = len(s.created) + 1
	s.created = append(s.created, offer)
	return offer, nil
}

func (s *stubOffers) GetOfferByID(_ context.Context, id int) (models.Offer, error) {
	o, ok := s.offers[id]
	if !ok {
		return models.Offer{}, models.ErrOfferNotFound
	}
	return o, nil
}

func (s *stubOffers) GetOffersByTaskID(_ context.Context, taskID int) ([]models.Offer, error) {
	var out []models.Offer
	for _, o := range s.offers {
		if o.TaskID == taskID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubOffers) MarkViewed(_ context.Context, id int) error {
	s.viewed = append(s.viewed, id)
	o := s.offers[id]
	o.Status = models.OfferStatusViewed
	s.offers[id] = o
	return nil
}

func (s *stubOffers) UpdateStatusCAS(_ context.Context, id int, toStatus string) error {
	s.casCalls = append(s.casCalls, toStatus)
	o, ok := s.offers[id]
	if !ok {
		return models.ErrOfferNotFound
	}
	if o.Status != models.OfferStatusPending && o.Status != models.OfferStatusViewed {
		return models.ErrInvalidState
	}
	o.Status = toStatus
	s.offers[id] = o
	return nil
}

func (s *stubOffers) Accept(_ context.Context, offerID, actorID int) (models.Task, []models.RejectedOffer, error) {
	if s.acceptErr != nil {
		return models.Task{}, nil, s.acceptErr
	}
	return s.acceptTask, s.acceptLosers, nil
}

type stubTasks struct {
	tasks map[int]models.Task
}

func (s *stubTasks) GetTaskByID(_ context.Context, id int) (models.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return models.Task{}, models.ErrTaskNotFound
	}
	return t, nil
}

type stubChats struct {
	fail     bool
	messages []models.Message
}

func (s *stubChats) AddSystemMessage(_ context.Context, chatID, receiverID int, text string) (models.Message, error) {
	if s.fail {
		return models.Message{}, errors.New("chat store down")
	}
	msg := models.Message{ID: "m", ChatID: chatID, ReceiverID: receiverID, Text: text, System: true}
	s.messages = append(s.messages, msg)
	return msg, nil
}

type stubNotifications struct {
	rows []models.Notification
}

func (s *stubNotifications) CreateNotification(_ context.Context, n models.Notification) (models.Notification, error) {
	n.ID = len(s.rows) + 1
	s.rows = append(s.rows, n)
	return n, nil
}

type stubEmails struct {
	emails map[int]string
}

func (s *stubEmails) EmailByID(_ context.Context, id int) (string, error) {
	e, ok := s.emails[id]
	if !ok {
		return "", errors.New("no such user")
	}
	return e, nil
}

type stubQueue struct {
	accepted []notify.OfferAcceptedPayload
	rejected []notify.OfferRejectedPayload
}

func (s *stubQueue) OfferAccepted(_ context.Context, p notify.OfferAcceptedPayload) error {
	s.accepted = append(s.accepted, p)
	return nil
}

func (s *stubQueue) OfferRejected(_ context.Context, p notify.OfferRejectedPayload) error {
	s.rejected = append(s.rejected, p)
	return nil
}

type stubPusher struct {
	pushed []int
}

func (s *stubPusher) PushMessage(userID int, _ models.Message) {
	s.pushed = append(s.pushed, userID)
}

func newTestService(offers *stubOffers, tasks *stubTasks) (*OfferService, *stubChats, *stubNotifications, *stubQueue, *stubPusher) {
	chats := &stubChats{}
	notifications := &stubNotifications{}
	queue := &stubQueue{}
	pusher := &stubPusher{}
	svc := &OfferService{
		Offers:        offers,
		Tasks:         tasks,
		Chats:         chats,
		Notifications: notifications,
		Emails:        &stubEmails{emails: map[int]string{7: "winner@example.com", 8: "second@example.com", 9: "third@example.com"}},
		Queue:         queue,
		Pusher:        pusher,
		ErrorLog:      log.New(io.Discard, "", 0),
	}
	return svc, chats, notifications, queue, pusher
}

func TestCreateOfferDefaultsAmountKind(t *testing.T) {
	offers := &stubOffers{offers: map[int]models.Offer{}}
	svc, _, _, _, _ := newTestService(offers, &stubTasks{})

	got, err := svc.CreateOffer(context.Background(), models.Offer{TaskID: 1, ProID: 7, Amount: 15000})
	if err != nil {
		t.Fatalf("CreateOffer: %v", err)
	}
	if got.AmountKind != models.AmountKindFixed {
		t.Fatalf("amount kind = %q, want %q", got.AmountKind, models.AmountKindFixed)
	}

	got, err = svc.CreateOffer(context.Background(), models.Offer{TaskID: 1, ProID: 8})
	if err != nil {
		t.Fatalf("CreateOffer: %v", err)
	}
	if got.AmountKind != models.AmountKindToDiscuss {
		t.Fatalf("amount kind = %q, want %q", got.AmountKind, models.AmountKindToDiscuss)
	}

	if _, err = svc.CreateOffer(context.Background(), models.Offer{TaskID: 1, ProID: 9, AmountKind: "barter"}); err == nil {
		t.Fatal("expected error for unknown amount kind")
	}
}

func TestViewOfferStampsOnce(t *testing.T) {
	offers := &stubOffers{offers: map[int]models.Offer{
		5: {ID: 5, TaskID: 1, ProID: 7, Status: models.OfferStatusPending},
	}}
	tasks := &stubTasks{tasks: map[int]models.Task{1: {ID: 1, UserID: 42}}}
	svc, _, _, _, _ := newTestService(offers, tasks)

	got, err := svc.ViewOffer(context.Background(), 5, 42)
	if err != nil {
		t.Fatalf("ViewOffer: %v", err)
	}
	if got.Status != models.OfferStatusViewed {
		t.Fatalf("status = %q, want %q", got.Status, models.OfferStatusViewed)
	}
	if len(offers.viewed) != 1 {
		t.Fatalf("MarkViewed calls = %d, want 1", len(offers.viewed))
	}

	if _, err := svc.ViewOffer(context.Background(), 5, 42); err != nil {
		t.Fatalf("second ViewOffer: %v", err)
	}
	if len(offers.viewed) != 1 {
		t.Fatalf("MarkViewed calls after repeat = %d, want 1", len(offers.viewed))
	}
}

func TestViewOfferForbidden(t *testing.T) {
	offers := &stubOffers{offers: map[int]models.Offer{
		5: {ID: 5, TaskID: 1, ProID: 7, Status: models.OfferStatusPending},
	}}
	tasks := &stubTasks{tasks: map[int]models.Task{1: {ID: 1, UserID: 42}}}
	svc, _, _, _, _ := newTestService(offers, tasks)

	if _, err := svc.ViewOffer(context.Background(), 5, 99); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if len(offers.viewed) != 0 {
		t.Fatal("MarkViewed must not run for a stranger")
	}
}

func TestAcceptOfferReturnsResult(t *testing.T) {
	offers := &stubOffers{
		offers: map[int]models.Offer{
			5: {ID: 5, TaskID: 1, ProID: 7, ChatID: 100, Amount: 15000, Status: models.OfferStatusAccepted},
		},
		acceptTask: models.Task{ID: 1, UserID: 42, Title: "Fix the sink", Status: models.TaskStatusAccepted},
		acceptLosers: []models.RejectedOffer{
			{OfferID: 6, ProID: 8, ChatID: 101},
			{OfferID: 7, ProID: 9, ChatID: 102},
		},
	}
	svc, _, _, _, _ := newTestService(offers, &stubTasks{})

	res, err := svc.AcceptOffer(context.Background(), 5, 42)
	if err != nil {
		t.Fatalf("AcceptOffer: %v", err)
	}
	if res.Task.Status != models.TaskStatusAccepted {
		t.Fatalf("task status = %q, want %q", res.Task.Status, models.TaskStatusAccepted)
	}
	if res.RejectedCount != 2 {
		t.Fatalf("rejected count = %d, want 2", res.RejectedCount)
	}
}

func TestAcceptOfferErrorSkipsFanOut(t *testing.T) {
	offers := &stubOffers{
		offers:    map[int]models.Offer{},
		acceptErr: models.ErrOfferNotAcceptable,
	}
	svc, chats, notifications, queue, _ := newTestService(offers, &stubTasks{})

	if _, err := svc.AcceptOffer(context.Background(), 5, 42); !errors.Is(err, models.ErrOfferNotAcceptable) {
		t.Fatalf("err = %v, want ErrOfferNotAcceptable", err)
	}
	if len(chats.messages) != 0 || len(notifications.rows) != 0 || len(queue.accepted) != 0 || len(queue.rejected) != 0 {
		t.Fatal("fan-out must not run when acceptance fails")
	}
}

func TestFanOutCascade(t *testing.T) {
	offers := &stubOffers{offers: map[int]models.Offer{}}
	svc, chats, notifications, queue, pusher := newTestService(offers, &stubTasks{})

	task := models.Task{ID: 1, UserID: 42, Title: "Fix the sink"}
	winner := models.Offer{ID: 5, TaskID: 1, ProID: 7, ChatID: 100, Amount: 15000}
	losers := []models.RejectedOffer{
		{OfferID: 6, ProID: 8, ChatID: 101},
		{OfferID: 7, ProID: 9, ChatID: 102},
	}

	svc.fanOut(task, winner, losers)

	if len(chats.messages) != 3 {
		t.Fatalf("system messages = %d, want 3", len(chats.messages))
	}
	if !chats.messages[0].System || chats.messages[0].ChatID != 100 {
		t.Fatalf("first message must land in the winner chat, got %+v", chats.messages[0])
	}
	if len(notifications.rows) != 3 {
		t.Fatalf("notifications = %d, want 3", len(notifications.rows))
	}
	if notifications.rows[0].Kind != models.NotificationOfferAccepted {
		t.Fatalf("winner notification kind = %q", notifications.rows[0].Kind)
	}
	if len(queue.accepted) != 1 || len(queue.rejected) != 2 {
		t.Fatalf("queued = %d accepted, %d rejected; want 1 and 2", len(queue.accepted), len(queue.rejected))
	}
	if queue.accepted[0].Amount != 15000 {
		t.Fatalf("accepted payload amount = %d, want 15000", queue.accepted[0].Amount)
	}
	if queue.accepted[0].Envelope.To != "winner@example.com" {
		t.Fatalf("accepted envelope to = %q", queue.accepted[0].Envelope.To)
	}
	if queue.accepted[0].EventID == "" {
		t.Fatal("accepted payload must carry an event id")
	}
	if len(pusher.pushed) != 3 {
		t.Fatalf("pushes = %d, want 3", len(pusher.pushed))
	}
	if pusher.pushed[0] != 7 {
		t.Fatalf("first push went to user %d, want 7", pusher.pushed[0])
	}
}

func TestFanOutSurvivesChatFailure(t *testing.T) {
	offers := &stubOffers{offers: map[int]models.Offer{}}
	svc, chats, notifications, queue, pusher := newTestService(offers, &stubTasks{})
	chats.fail = true

	task := models.Task{ID: 1, UserID: 42, Title: "Fix the sink"}
	winner := models.Offer{ID: 5, TaskID: 1, ProID: 7, ChatID: 100}
	losers := []models.RejectedOffer{{OfferID: 6, ProID: 8, ChatID: 101}}

	svc.fanOut(task, winner, losers)

	if len(notifications.rows) != 2 {
		t.Fatalf("notifications = %d, want 2", len(notifications.rows))
	}
	if len(queue.accepted) != 1 || len(queue.rejected) != 1 {
		t.Fatalf("queued = %d accepted, %d rejected; want 1 and 1", len(queue.accepted), len(queue.rejected))
	}
	if len(pusher.pushed) != 0 {
		t.Fatal("no pushes expected when the chat write fails")
	}
}

func TestWithdrawAcceptedOffer(t *testing.T) {
	offers := &stubOffers{offers: map[int]models.Offer{
		5: {ID: 5, TaskID: 1, ProID: 7, Status: models.OfferStatusAccepted},
	}}
	svc, _, _, _, _ := newTestService(offers, &stubTasks{})

	if _, err := svc.WithdrawOffer(context.Background(), 5, 7); !errors.Is(err, models.ErrInvalidState) {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
	if _, err := svc.WithdrawOffer(context.Background(), 5, 8); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestRejectOfferOwnerOnly(t *testing.T) {
	offers := &stubOffers{offers: map[int]models.Offer{
		5: {ID: 5, TaskID: 1, ProID: 7, Status: models.OfferStatusViewed},
	}}
	tasks := &stubTasks{tasks: map[int]models.Task{1: {ID: 1, UserID: 42}}}
	svc, _, _, _, _ := newTestService(offers, tasks)

	if _, err := svc.RejectOffer(context.Background(), 5, 7); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	got, err := svc.RejectOffer(context.Background(), 5, 42)
	if err != nil {
		t.Fatalf("RejectOffer: %v", err)
	}
	if got.Status != models.OfferStatusRejected {
		t.Fatalf("status = %q, want %q", got.Status, models.OfferStatusRejected)
	}
}
