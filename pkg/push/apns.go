package push

import (
	"context"
	"fmt"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

type APNSProvider struct {
	client *apns2.Client
	topic  string
}

func NewAPNSProvider(keyFile, keyID, teamID, topic string, production bool) (*APNSProvider, error) {
	authKey, err := token.AuthKeyFromFile(keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load auth key: %w", err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   keyID,
		TeamID:  teamID,
	})
	if production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &APNSProvider{
		client: client,
		topic:  topic,
	}, nil
}

func (a *APNSProvider) Name() string { return "apns" }

func (a *APNSProvider) SendNotification(ctx context.Context, request *NotificationRequest) (*NotificationResponse, error) {
	response, err := a.client.PushWithContext(ctx, buildAPNSNotification(a.topic, request))
	if err != nil {
		return nil, fmt.Errorf("apns push failed: %w", err)
	}
	if !response.Sent() {
		return nil, fmt.Errorf("apns rejected notification: %d %s", response.StatusCode, response.Reason)
	}

	return &NotificationResponse{MessageID: response.ApnsID, Provider: a.Name()}, nil
}

func buildAPNSNotification(topic string, request *NotificationRequest) *apns2.Notification {
	p := payload.NewPayload().
		AlertTitle(request.Title).
		AlertBody(request.Body)
	if request.Sound != "" {
		p = p.Sound(request.Sound)
	}
	for k, v := range request.Data {
		p = p.Custom(k, v)
	}

	notification := &apns2.Notification{
		DeviceToken: request.Token,
		Topic:       topic,
		Payload:     p,
		Priority:    apns2.PriorityLow,
		CollapseID:  request.CollapseKey,
	}
	if request.Priority == "high" {
		notification.Priority = apns2.PriorityHigh
	}
	return notification
}
