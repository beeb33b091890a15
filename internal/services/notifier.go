// Package services содержит планировщик уведомлений: периодически находит
// подписки активных компаний, срок которых скоро закончится, и публикует
// события в RabbitMQ. Доставка уведомлений - забота потребителей очереди.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/review-dashboard/internal/lib/lifecycle"
	"github.com/magabrotheeeer/review-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/review-dashboard/internal/models"
	"github.com/magabrotheeeer/review-dashboard/internal/rabbitmq"
)

// ExpiringSubscriptionRepository определяет метод поиска истекающих подписок.
type ExpiringSubscriptionRepository interface {
	FindExpiringSubscriptions(ctx context.Context, withinDays int) ([]*models.ExpiringSubscription, error)
}

// NotifierService публикует уведомления об истекающих подписках.
type NotifierService struct {
	repo ExpiringSubscriptionRepository
	log  *slog.Logger
}

// NewNotifierService создает новый экземпляр NotifierService.
func NewNotifierService(repo ExpiringSubscriptionRepository, log *slog.Logger) *NotifierService {
	return &NotifierService{
		repo: repo,
		log:  log,
	}
}

// Run запускает цикл поиска истекающих подписок с заданным интервалом.
// Останавливается при отмене контекста.
func (s *NotifierService) Run(ctx context.Context, channel *amqp.Channel, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.publishExpiring(ctx, channel)
		}
	}
}

func (s *NotifierService) publishExpiring(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting scan for expiring subscriptions")
	entries, err := s.repo.FindExpiringSubscriptions(ctx, lifecycle.ExpiringThresholdDays)
	if err != nil {
		s.log.Error("failed to find expiring subscriptions", sl.Err(err))
		return
	}
	for _, entry := range entries {
		err = rabbitmq.PublishMessage(channel, rabbitmq.NotificationsExchange,
			rabbitmq.ExpiringRoutingKey, entry)
		if err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
	s.log.Info("expiring subscriptions published", slog.Int("count", len(entries)))
}
