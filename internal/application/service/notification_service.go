package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/domain/entity"
	"github.com/sangkips/fms-api/internal/domain/enum"
	"github.com/sangkips/fms-api/internal/domain/event"
	"github.com/sangkips/fms-api/internal/domain/repository"
	"github.com/sangkips/fms-api/pkg/apperror"
	"github.com/sangkips/fms-api/pkg/pagination"
	"go.uber.org/zap"
)

// ErrNoAddress is returned by a Notifier when the user cannot be reached on its channel
var ErrNoAddress = errors.New("user has no address on this channel")

// Notifier delivers a message to a user over one channel
type Notifier interface {
	Type() enum.NotificationType
	Send(ctx context.Context, user *entity.User, message, subject string) error
}

// EventPublisher broadcasts committed document events
type EventPublisher interface {
	Publish(ctx context.Context, evt event.DocumentEvent) error
}

// Metrics records workflow counters
type Metrics interface {
	ObserveTransition(document, action, result string)
	ObserveNotification(channel, result string)
}

type noopMetrics struct{}

func (noopMetrics) ObserveTransition(string, string, string) {}
func (noopMetrics) ObserveNotification(string, string)       {}

// NotificationService fans messages out to every configured channel. Delivery
// is best-effort: failures are logged and never reach the caller.
type NotificationService struct {
	channels      []Notifier
	users         repository.UserRepository
	notifications repository.NotificationRepository
	publisher     EventPublisher
	metrics       Metrics
	log           *zap.Logger
}

// NewNotificationService creates a new notification service. publisher and
// metrics may be nil.
func NewNotificationService(
	channels []Notifier,
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	publisher EventPublisher,
	metrics Metrics,
	log *zap.Logger,
) *NotificationService {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &NotificationService{
		channels:      channels,
		users:         users,
		notifications: notifications,
		publisher:     publisher,
		metrics:       metrics,
		log:           log,
	}
}

// Dispatch sends message to user on every channel and records one
// Notification per successful delivery. It reports whether any channel
// delivered.
func (s *NotificationService) Dispatch(ctx context.Context, user *entity.User, message, subject string) bool {
	if user == nil {
		return false
	}

	delivered := false
	for _, ch := range s.channels {
		channel := ch.Type().String()
		err := ch.Send(ctx, user, message, subject)
		switch {
		case errors.Is(err, ErrNoAddress):
			s.metrics.ObserveNotification(channel, "skipped")
			continue
		case err != nil:
			s.metrics.ObserveNotification(channel, "failure")
			s.log.Warn("notification delivery failed",
				zap.String("channel", channel),
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
			continue
		}

		s.metrics.ObserveNotification(channel, "success")
		delivered = true

		record := &entity.Notification{UserID: user.ID, Message: message, Type: ch.Type()}
		if err := s.notifications.Create(ctx, record); err != nil {
			s.log.Warn("failed to record notification",
				zap.String("channel", channel),
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
		}
	}
	return delivered
}

// NotifyAdmins dispatches message to every Admin
func (s *NotificationService) NotifyAdmins(ctx context.Context, message, subject string) {
	admins, err := s.users.ListByRole(ctx, enum.RoleAdmin)
	if err != nil {
		s.log.Warn("failed to load admins for notification", zap.Error(err))
		return
	}
	for i := range admins {
		s.Dispatch(ctx, &admins[i], message, subject)
	}
}

// NotifyOwner dispatches message to the owner of a document, if it still has one
func (s *NotificationService) NotifyOwner(ctx context.Context, ownerID *uuid.UUID, message, subject string) {
	if ownerID == nil {
		return
	}
	owner, err := s.users.GetByID(ctx, *ownerID)
	if err != nil {
		s.log.Warn("failed to load document owner", zap.String("user_id", ownerID.String()), zap.Error(err))
		return
	}
	s.Dispatch(ctx, owner, message, subject)
}

// Publish broadcasts evt when a publisher is configured
func (s *NotificationService) Publish(ctx context.Context, evt event.DocumentEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.log.Warn("failed to publish document event",
			zap.String("document", evt.Document),
			zap.String("action", evt.Action),
			zap.Error(err),
		)
	}
}

// ListMine returns the notifications delivered to actor, newest first
func (s *NotificationService) ListMine(ctx context.Context, actor *Actor, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Notification], error) {
	if actor == nil {
		return nil, apperror.ErrUnauthorized
	}
	params = pagination.Ensure(params)
	items, total, err := s.notifications.ListByUser(ctx, actor.ID, params)
	if err != nil {
		return nil, persistenceError(s.log, "list notifications", err)
	}
	return pagination.NewPaginatedResult(items, params, total), nil
}
