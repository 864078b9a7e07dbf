package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/nasiya/internal/clock"
	"github.com/smallbiznis/nasiya/internal/cohort/domain"
	debtordomain "github.com/smallbiznis/nasiya/internal/debtor/domain"
	ledgerdomain "github.com/smallbiznis/nasiya/internal/ledger/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	LedgerRepo ledgerdomain.Repository
	DebtorRepo debtordomain.Repository
	Clock      clock.Clock
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	ledgerRepo ledgerdomain.Repository
	debtorRepo debtordomain.Repository
	clock      clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("cohort.service"),
		ledgerRepo: p.LedgerRepo,
		debtorRepo: p.DebtorRepo,
		clock:      p.Clock,
	}
}

type windowData struct {
	debts    []ledgerdomain.Debt
	payments []ledgerdomain.Payment
	debtors  map[snowflake.ID]debtordomain.Debtor
}

func (s *Service) MaturityReport(ctx context.Context, q domain.Query) (domain.Report, error) {
	data, err := s.load(ctx, true)
	if err != nil {
		return domain.Report{}, err
	}
	members := domain.ClassifyMaturity(data.debts, data.payments, data.debtors)
	return domain.Apply(members, q)
}

func (s *Service) IntervalReport(ctx context.Context, q domain.Query) (domain.Report, error) {
	data, err := s.load(ctx, false)
	if err != nil {
		return domain.Report{}, err
	}
	members := domain.ClassifyIntervals(data.payments, data.debtors)
	return domain.Apply(members, q)
}

func (s *Service) load(ctx context.Context, withDebts bool) (windowData, error) {
	start := domain.WindowStart(s.clock.Now())
	data := windowData{debtors: make(map[snowflake.ID]debtordomain.Debtor)}

	ids := make(map[snowflake.ID]struct{})
	if withDebts {
		debts, err := s.ledgerRepo.ListDebts(ctx, s.db, ledgerdomain.DebtFilter{From: &start})
		if err != nil {
			return data, err
		}
		for _, d := range debts {
			data.debts = append(data.debts, *d)
			ids[d.DebtorID] = struct{}{}
		}
	}

	payments, err := s.ledgerRepo.ListPayments(ctx, s.db, ledgerdomain.PaymentFilter{From: &start})
	if err != nil {
		return data, err
	}
	for _, p := range payments {
		data.payments = append(data.payments, *p)
		ids[p.DebtorID] = struct{}{}
	}

	if len(ids) == 0 {
		return data, nil
	}
	list := make([]snowflake.ID, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	debtors, err := s.debtorRepo.FindByIDs(ctx, s.db, list)
	if err != nil {
		return data, err
	}
	for _, d := range debtors {
		data.debtors[d.ID] = *d
	}

	s.log.Debug("loaded cohort window",
		zap.Time("start", start),
		zap.Int("debts", len(data.debts)),
		zap.Int("payments", len(data.payments)),
		zap.Int("debtors", len(data.debtors)),
	)
	return data, nil
}
