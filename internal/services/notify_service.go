package services

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"

	"github.com/TAMUSHPE/MobileApp-sub001/internal/metrics"
)

var ErrNoPushTokens = errors.New("member has no registered push tokens")

// NotifyService delivers push notifications to members' registered device
// tokens. Delivery is per-token; one bad token does not block the rest.
type NotifyService struct {
	msg   *messaging.Client
	users *UserService
	log   *zap.Logger
}

func NewNotifyService(ctx context.Context, app *firebase.App, users *UserService, log *zap.Logger) (*NotifyService, error) {
	msg, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init messaging client: %w", err)
	}
	return &NotifyService{msg: msg, users: users, log: log}, nil
}

// SendToUser pushes a notification to every token the member has registered.
// Returns how many deliveries succeeded.
func (s *NotifyService) SendToUser(ctx context.Context, uid, title, body string) (int, error) {
	priv, err := s.users.GetPrivateUser(ctx, uid)
	if err != nil {
		return 0, err
	}
	if len(priv.ExpoPushTokens) == 0 {
		return 0, ErrNoPushTokens
	}
	return s.sendToTokens(ctx, priv.ExpoPushTokens, title, body), nil
}

// SendToUsers fans a notification out to several members, skipping any whose
// token list is empty or unreadable.
func (s *NotifyService) SendToUsers(ctx context.Context, uids []string, title, body string) int {
	sent := 0
	for _, uid := range uids {
		n, err := s.SendToUser(ctx, uid, title, body)
		if err != nil && !errors.Is(err, ErrNoPushTokens) {
			s.log.Warn("notify: skipping member", zap.String("uid", uid), zap.Error(err))
			continue
		}
		sent += n
	}
	return sent
}

func (s *NotifyService) sendToTokens(ctx context.Context, tokens []string, title, body string) int {
	sent := 0
	for _, token := range tokens {
		_, err := s.msg.Send(ctx, &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
		})
		if err != nil {
			metrics.PushesFailed.Inc()
			s.log.Warn("notify: send failed", zap.Error(err))
			continue
		}
		metrics.PushesSent.Inc()
		sent++
	}
	return sent
}
