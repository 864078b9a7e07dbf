package service

import (
	"context"
	"time"

	"github.com/smallbiznis/nasiya/internal/clock"
	ledgerdomain "github.com/smallbiznis/nasiya/internal/ledger/domain"
	ratingdomain "github.com/smallbiznis/nasiya/internal/rating/domain"
	"github.com/smallbiznis/nasiya/internal/rating/engine"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	Ledger   ledgerdomain.Service
	Registry *engine.Registry
	Clock    clock.Clock
}

type Service struct {
	log      *zap.Logger
	ledger   ledgerdomain.Service
	registry *engine.Registry
	clock    clock.Clock
}

func NewService(p ServiceParam) ratingdomain.Service {
	return &Service{
		log:      p.Log.Named("rating.service"),
		ledger:   p.Ledger,
		registry: p.Registry,
		clock:    p.Clock,
	}
}

func (s *Service) RateDebtor(ctx context.Context, debtorID string, strategies ...engine.Strategy) (ratingdomain.DebtorRating, error) {
	if len(strategies) == 0 {
		strategies = s.registry.Names()
	}

	providers := make([]engine.Provider, 0, len(strategies))
	for _, name := range strategies {
		p, err := s.registry.Lookup(name)
		if err != nil {
			return ratingdomain.DebtorRating{}, err
		}
		providers = append(providers, p)
	}

	history, err := s.ledger.History(ctx, debtorID)
	if err != nil {
		return ratingdomain.DebtorRating{}, err
	}

	now := s.clock.Now()
	out := ratingdomain.DebtorRating{
		DebtorID: debtorID,
		Ratings:  make(map[engine.Strategy]engine.Rating, len(providers)),
	}
	for _, p := range providers {
		start := time.Now()
		rating, ok := p.Rate(history, now)
		s.log.Debug("rated debtor",
			zap.String("debtor_id", debtorID),
			zap.String("strategy", string(p.Name())),
			zap.Bool("rated", ok),
			zap.Duration("took", time.Since(start)),
		)
		if !ok {
			continue
		}
		out.Ratings[p.Name()] = rating
	}
	return out, nil
}
