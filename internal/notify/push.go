package notify

import (
	"context"

	"firebase.google.com/go/messaging"
)

// PushSender delivers push notifications through FCM. A nil client disables
// pushes without failing the worker.
type PushSender struct {
	Client *messaging.Client
}

func (p *PushSender) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if p == nil || p.Client == nil {
		return nil
	}
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority_channel",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority": "10",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: title,
						Body:  body,
					},
					Sound: "default",
				},
			},
		},
	}
	_, err := p.Client.Send(ctx, message)
	return err
}
