package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/nasiya/internal/clock"
	"github.com/smallbiznis/nasiya/internal/config"
	debtordomain "github.com/smallbiznis/nasiya/internal/debtor/domain"
	notificationdomain "github.com/smallbiznis/nasiya/internal/notification/domain"
	"github.com/smallbiznis/nasiya/internal/observability/metrics"
	"github.com/smallbiznis/nasiya/internal/overdue/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultBatchSize = 500

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	Config        config.Config
	DebtorRepo    debtordomain.Repository
	Notifications notificationdomain.Service
	Clock         clock.Clock
	Metrics       *metrics.Metrics `optional:"true"`
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	batchSize     int
	debtorRepo    debtordomain.Repository
	notifications notificationdomain.Service
	clock         clock.Clock
	metrics       *metrics.Metrics
}

func New(p Params) domain.Service {
	batchSize := p.Config.Scheduler.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("overdue.service"),
		batchSize:     batchSize,
		debtorRepo:    p.DebtorRepo,
		notifications: p.Notifications,
		clock:         p.Clock,
		metrics:       p.Metrics,
	}
}

// Sweep flags every debtor that crossed the overdue threshold. Each flag is
// a conditional update, so concurrent or repeated sweeps flag a debtor once.
func (s *Service) Sweep(ctx context.Context) (domain.SweepResult, error) {
	now := s.clock.Now().UTC()
	var (
		result  domain.SweepResult
		errs    []error
		afterID snowflake.ID
	)

	for {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		batch, err := s.debtorRepo.ListOverdueCandidates(ctx, s.db, afterID, s.batchSize)
		if err != nil {
			errs = append(errs, fmt.Errorf("list overdue candidates: %w", err))
			break
		}
		if len(batch) == 0 {
			break
		}

		for _, debtor := range batch {
			afterID = debtor.ID
			result.Scanned++
			if !domain.IsCandidate(domain.SnapshotOf(*debtor), now) {
				continue
			}
			result.Candidates++

			flagged, err := s.debtorRepo.MarkOverdue(ctx, s.db, debtor.ID, now)
			if err != nil {
				errs = append(errs, fmt.Errorf("mark debtor %s overdue: %w", debtor.ID, err))
				continue
			}
			if !flagged {
				continue
			}
			result.Flagged++

			input := notificationdomain.OverduePayment(debtor.ID, debtor.FirstName, debtor.LastName, debtor.TotalDebt)
			if _, err := s.notifications.Notify(ctx, input); err != nil {
				result.NotifyFailure++
				s.log.Warn("failed to create overdue notification",
					zap.String("debtor_id", debtor.ID.String()),
					zap.Error(err),
				)
			}
		}

		if len(batch) < s.batchSize {
			break
		}
	}

	s.metrics.RecordOverdueFlagged(ctx, result.Flagged)
	if result.Flagged > 0 {
		s.log.Info("overdue sweep flagged debtors",
			zap.Int("scanned", result.Scanned),
			zap.Int("flagged", result.Flagged),
		)
	}
	return result, errors.Join(errs...)
}

func (s *Service) ListOverdue(ctx context.Context) ([]debtordomain.Debtor, error) {
	items, err := s.debtorRepo.ListOverdue(ctx, s.db)
	if err != nil {
		return nil, err
	}
	out := make([]debtordomain.Debtor, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out, nil
}
