package notification

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"laborhub/internal/domain"
)

// Pusher delivers live events. *Hub implements it.
type Pusher interface {
	Push(role string, userID int64, event *WSEvent)
}

type Service struct {
	repo   Repository
	pusher Pusher
	log    *zap.Logger
}

func NewService(repo Repository, pusher Pusher, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, pusher: pusher, log: log}
}

type Input struct {
	RecipientID int64
	Role        string
	Message     string
	Severity    domain.Severity
	Link        string
}

// Notify stores the notification and pushes it to the recipient's open sockets.
func (s *Service) Notify(ctx context.Context, in Input) (*domain.Notification, error) {
	if in.RecipientID <= 0 || (in.Role != domain.RoleCustomer && in.Role != domain.RoleLabor) {
		return nil, ErrInvalidRecipient
	}
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return nil, ErrEmptyMessage
	}
	severity := in.Severity
	switch severity {
	case domain.SeverityInfo, domain.SeveritySuccess, domain.SeverityWarning, domain.SeverityError:
	default:
		severity = domain.SeverityInfo
	}

	n := &domain.Notification{
		RecipientID:   in.RecipientID,
		RecipientRole: in.Role,
		Message:       msg,
		Severity:      severity,
		Link:          in.Link,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	if s.pusher != nil {
		s.pusher.Push(in.Role, in.RecipientID, &WSEvent{Type: EventNotification, Payload: n})
	}
	return n, nil
}

type ListResult struct {
	Notifications []domain.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
}

func (s *Service) List(ctx context.Context, recipientID int64, role string, limit, offset int) (*ListResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	list, err := s.repo.ListByRecipient(ctx, recipientID, role, limit, offset)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, recipientID, role)
	if err != nil {
		s.log.Warn("count unread notifications", zap.Int64("recipient_id", recipientID), zap.Error(err))
		unread = 0
	}
	if list == nil {
		list = []domain.Notification{}
	}
	return &ListResult{Notifications: list, UnreadCount: unread}, nil
}

func (s *Service) MarkRead(ctx context.Context, id, recipientID int64, role string) error {
	return s.repo.MarkAsRead(ctx, id, recipientID, role)
}

func (s *Service) MarkAllRead(ctx context.Context, recipientID int64, role string) (int64, error) {
	n, err := s.repo.MarkAllAsRead(ctx, recipientID, role)
	if err != nil {
		return 0, err
	}
	if n > 0 && s.pusher != nil {
		s.pusher.Push(role, recipientID, &WSEvent{Type: EventReadAll})
	}
	return n, nil
}

// DeleteOlderThan removes read notifications created before now minus retention.
func (s *Service) DeleteOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	return s.repo.DeleteReadOlderThan(ctx, time.Now().UTC().Add(-retention))
}
