package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/hibiken/asynq"
)

// TokenSource resolves a user's registered push tokens.
type TokenSource interface {
	TokensByUserID(ctx context.Context, userID int) ([]string, error)
}

// Processor consumes fan-out tasks. Delivery failures are logged and
// swallowed; the acceptance transaction has already committed and nothing
// here may surface back to its caller.
type Processor struct {
	Mailer   *Mailer
	Push     *PushSender
	Tokens   TokenSource
	ErrorLog *log.Logger
}

// Mux registers the task handlers.
func (p *Processor) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskOfferAccepted, p.handleOfferAccepted)
	mux.HandleFunc(TaskOfferRejected, p.handleOfferRejected)
	return mux
}

// NewServer builds the asynq server consuming the notify queue.
func NewServer(redisAddr string) *asynq.Server {
	return asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			QueueName: 10,
		},
	})
}

func (p *Processor) handleOfferAccepted(ctx context.Context, t *asynq.Task) error {
	var payload OfferAcceptedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		p.ErrorLog.Printf("notify: bad offer_accepted payload: %v", err)
		return nil
	}
	p.deliver(ctx, payload.UserID, payload.Envelope, map[string]string{
		"kind":     "offer_accepted",
		"task_id":  strconv.Itoa(payload.TaskID),
		"offer_id": strconv.Itoa(payload.OfferID),
	})
	return nil
}

func (p *Processor) handleOfferRejected(ctx context.Context, t *asynq.Task) error {
	var payload OfferRejectedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		p.ErrorLog.Printf("notify: bad offer_rejected payload: %v", err)
		return nil
	}
	p.deliver(ctx, payload.UserID, payload.Envelope, map[string]string{
		"kind":     "offer_rejected",
		"task_id":  strconv.Itoa(payload.TaskID),
		"offer_id": strconv.Itoa(payload.OfferID),
	})
	return nil
}

// deliver sends the email and every push independently, so one failed send
// does not block the others.
func (p *Processor) deliver(ctx context.Context, userID int, env EmailEnvelope, data map[string]string) {
	if env.To != "" {
		if err := p.Mailer.Send(env.To, env.Subject, env.Body); err != nil {
			p.ErrorLog.Printf("notify: email to user=%d failed: %v", userID, err)
		}
	}

	if p.Tokens == nil {
		return
	}
	tokens, err := p.Tokens.TokensByUserID(ctx, userID)
	if err != nil {
		p.ErrorLog.Printf("notify: token lookup for user=%d failed: %v", userID, err)
		return
	}
	for _, token := range tokens {
		if err := p.Push.Send(ctx, token, env.Subject, env.Body, data); err != nil {
			p.ErrorLog.Printf("notify: push to user=%d failed: %v", userID, err)
		}
	}
}

// AcceptedEnvelope renders the winner email.
func AcceptedEnvelope(to, taskTitle string) EmailEnvelope {
	return EmailEnvelope{
		To:      to,
		Subject: "Your offer was accepted",
		Body:    fmt.Sprintf("The client accepted your offer for %q. Open the chat to agree on the details.", taskTitle),
	}
}

// RejectedEnvelope renders the loser email.
func RejectedEnvelope(to, taskTitle string) EmailEnvelope {
	return EmailEnvelope{
		To:      to,
		Subject: "The task went to another professional",
		Body:    fmt.Sprintf("The client chose another offer for %q. Keep an eye on your feed for new tasks.", taskTitle),
	}
}
