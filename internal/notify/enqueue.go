package notify

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Client enqueues fan-out tasks. Sends are best effort: tasks carry no
// retries, a failed delivery is logged by the worker and dropped.
type Client struct {
	client *asynq.Client
}

func NewClient(redisAddr string) *Client {
	return &Client{client: asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})}
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) OfferAccepted(ctx context.Context, p OfferAcceptedPayload) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, asynq.NewTask(TaskOfferAccepted, b), asynq.Queue(QueueName), asynq.MaxRetry(0))
	return err
}

func (c *Client) OfferRejected(ctx context.Context, p OfferRejectedPayload) error {
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, asynq.NewTask(TaskOfferRejected, b), asynq.Queue(QueueName), asynq.MaxRetry(0))
	return err
}
