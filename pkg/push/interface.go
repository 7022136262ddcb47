package push

import (
	"context"
	"errors"
)

var ErrNoProvider = errors.New("push: no provider for platform")

const (
	PlatformAndroid = "android"
	PlatformIOS     = "ios"
)

type PushProvider interface {
	SendNotification(ctx context.Context, request *NotificationRequest) (*NotificationResponse, error)
	Name() string
}

type NotificationRequest struct {
	Token    string            `json:"token"`
	Title    string            `json:"title"`
	Body     string            `json:"body"`
	Data     map[string]string `json:"data,omitempty"`
	Sound    string            `json:"sound,omitempty"`
	Priority string            `json:"priority,omitempty"` // high, normal
	// CollapseKey groups updates for the same trip so only the latest is shown.
	CollapseKey string `json:"collapse_key,omitempty"`
}

type NotificationResponse struct {
	MessageID string `json:"message_id"`
	Provider  string `json:"provider"`
}

// Router sends each notification through the provider matching the device
// platform. FCM also delivers to iOS devices when APNS is not configured.
type Router struct {
	Android PushProvider
	IOS     PushProvider
}

func (r *Router) Send(ctx context.Context, platform string, request *NotificationRequest) (*NotificationResponse, error) {
	var provider PushProvider
	switch platform {
	case PlatformIOS:
		provider = r.IOS
		if provider == nil {
			provider = r.Android
		}
	default:
		provider = r.Android
	}
	if provider == nil {
		return nil, ErrNoProvider
	}
	return provider.SendNotification(ctx, request)
}

func (r *Router) Enabled() bool {
	return r != nil && (r.Android != nil || r.IOS != nil)
}
