package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type FCMProvider struct {
	client *messaging.Client
}

func NewFCMProvider(projectID, credentialsFile string) (*FCMProvider, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}

	app, err := firebase.NewApp(ctx, conf, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &FCMProvider{client: client}, nil
}

func (f *FCMProvider) Name() string { return "fcm" }

func (f *FCMProvider) SendNotification(ctx context.Context, request *NotificationRequest) (*NotificationResponse, error) {
	id, err := f.client.Send(ctx, buildFCMMessage(request))
	if err != nil {
		return nil, fmt.Errorf("fcm send failed: %w", err)
	}

	return &NotificationResponse{MessageID: id, Provider: f.Name()}, nil
}

func buildFCMMessage(request *NotificationRequest) *messaging.Message {
	priority := "normal"
	if request.Priority == "high" {
		priority = "high"
	}

	return &messaging.Message{
		Token: request.Token,
		Data:  request.Data,
		Notification: &messaging.Notification{
			Title: request.Title,
			Body:  request.Body,
		},
		Android: &messaging.AndroidConfig{
			Priority:    priority,
			CollapseKey: request.CollapseKey,
			Notification: &messaging.AndroidNotification{
				Sound:     request.Sound,
				ChannelID: "fletes",
			},
		},
	}
}
