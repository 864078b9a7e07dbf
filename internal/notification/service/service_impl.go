package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/nasiya/internal/clock"
	"github.com/smallbiznis/nasiya/internal/notification/domain"
	"github.com/smallbiznis/nasiya/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Clock    clock.Clock
	Channels []domain.Channel `group:"notification.channels"`
	Metrics  *metrics.Metrics `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	clock    clock.Clock
	channels []domain.Channel
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	channels := make([]domain.Channel, 0, len(p.Channels))
	for _, ch := range p.Channels {
		if ch != nil {
			channels = append(channels, ch)
		}
	}
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("notification.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		clock:    p.Clock,
		channels: channels,
		metrics:  p.Metrics,
	}
}

func (s *Service) Notify(ctx context.Context, input domain.Input) (domain.Notification, error) {
	if !input.Type.Valid() {
		return domain.Notification{}, domain.ErrInvalidType
	}
	title := strings.TrimSpace(input.Title)
	message := strings.TrimSpace(input.Message)
	if title == "" || message == "" {
		return domain.Notification{}, domain.ErrInvalidMessage
	}

	n := domain.Notification{
		ID:        s.genID.Generate(),
		DebtorID:  input.DebtorID,
		Type:      input.Type,
		Title:     title,
		Message:   message,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, s.db, &n); err != nil {
		s.metrics.RecordNotificationFailed(ctx, string(n.Type), "database")
		return domain.Notification{}, err
	}

	s.fanOut(ctx, n)
	return n, nil
}

func (s *Service) fanOut(ctx context.Context, n domain.Notification) {
	for _, ch := range s.channels {
		if err := ch.Deliver(ctx, n); err != nil {
			s.metrics.RecordNotificationFailed(ctx, string(n.Type), ch.Name())
			s.log.Warn("notification delivery failed",
				zap.String("channel", ch.Name()),
				zap.String("type", string(n.Type)),
				zap.String("notification_id", n.ID.String()),
				zap.Error(err),
			)
		}
	}
}

func (s *Service) ListUnread(ctx context.Context, limit int) ([]domain.Notification, error) {
	if limit <= 0 || limit > domain.MaxUnread {
		limit = domain.MaxUnread
	}
	items, err := s.repo.ListUnread(ctx, s.db, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Notification, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	parsed, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil || parsed == 0 {
		return domain.ErrInvalidID
	}
	affected, err := s.repo.MarkRead(ctx, s.db, parsed)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context) (int64, error) {
	return s.repo.MarkAllRead(ctx, s.db)
}

func (s *Service) HostingReminder(ctx context.Context, now time.Time, force bool) (bool, error) {
	now = now.UTC()
	if !force && now.Day() != domain.HostingReminderDay {
		s.log.Debug("hosting reminder skipped", zap.Int("day", now.Day()))
		return false, nil
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if !force {
		exists, err := s.repo.ExistsInRange(ctx, s.db, domain.TypeHostingReminder, monthStart, monthStart.AddDate(0, 1, 0))
		if err != nil {
			return false, err
		}
		if exists {
			s.log.Info("hosting reminder already exists for month", zap.String("month", monthStart.Format("2006-01")))
			return false, nil
		}
	}

	n, err := s.Notify(ctx, domain.HostingReminder(now))
	if err != nil {
		return false, err
	}
	s.log.Info("hosting reminder created", zap.String("notification_id", n.ID.String()))
	return true, nil
}
