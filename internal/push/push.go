package push

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

// Alert is a user-visible push message
type Alert struct {
	Title string
	Body  string
	Data  map[string]string
}

// Notifier delivers alerts to a device
type Notifier interface {
	Send(ctx context.Context, deviceToken string, alert Alert) error
}

// APNSOptions holds the token-based APNs credentials
type APNSOptions struct {
	KeyPath    string
	KeyID      string
	TeamID     string
	Topic      string
	Production bool
}

// APNSNotifier sends alerts through Apple Push Notification service
type APNSNotifier struct {
	client *apns2.Client
	topic  string
}

// NewAPNSNotifier creates a notifier from a .p8 auth key
func NewAPNSNotifier(opts APNSOptions) (*APNSNotifier, error) {
	authKey, err := token.AuthKeyFromFile(opts.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs auth key: %w", err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   opts.KeyID,
		TeamID:  opts.TeamID,
	})
	if opts.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &APNSNotifier{client: client, topic: opts.Topic}, nil
}

// Send pushes alert to deviceToken
func (n *APNSNotifier) Send(ctx context.Context, deviceToken string, alert Alert) error {
	p := payload.NewPayload().
		AlertTitle(alert.Title).
		AlertBody(alert.Body).
		Sound("default")
	for k, v := range alert.Data {
		p = p.Custom(k, v)
	}

	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       n.topic,
		Payload:     p,
		PushType:    apns2.PushTypeAlert,
		Priority:    apns2.PriorityHigh,
	}

	res, err := n.client.PushWithContext(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("push notification rejected: %d %s", res.StatusCode, res.Reason)
	}

	log.Debug().Str("apns_id", res.ApnsID).Msg("Push notification sent")
	return nil
}

// NopNotifier drops every alert. Used when APNs is not configured.
type NopNotifier struct{}

func (NopNotifier) Send(ctx context.Context, deviceToken string, alert Alert) error {
	log.Debug().Str("title", alert.Title).Msg("Push disabled, alert dropped")
	return nil
}
