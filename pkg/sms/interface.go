package sms

import (
	"context"
	"errors"
	"strings"
)

var ErrInvalidNumber = errors.New("sms: invalid phone number")

type SMSProvider interface {
	SendSMS(ctx context.Context, request *SMSRequest) (*SMSResponse, error)
	Name() string
}

type SMSRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
	Type    string `json:"type"` // transactional, promotional
}

type SMSResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

// NormalizePhone turns local numbers such as "9 8765 4321" into E.164 using
// defaultPrefix (e.g. "+56").
func NormalizePhone(raw, defaultPrefix string) (string, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return "", ErrInvalidNumber
		}
	}

	number := b.String()
	if !strings.HasPrefix(number, "+") {
		number = strings.TrimLeft(number, "0")
		number = defaultPrefix + number
	}

	digits := len(number) - 1
	if digits < 8 || digits > 15 {
		return "", ErrInvalidNumber
	}
	return number, nil
}

// Disabled drops messages when no provider is configured.
type Disabled struct{}

func (Disabled) SendSMS(context.Context, *SMSRequest) (*SMSResponse, error) {
	return &SMSResponse{Status: "skipped"}, nil
}

func (Disabled) Name() string { return "none" }
