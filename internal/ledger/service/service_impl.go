package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	auditdomain "github.com/smallbiznis/nasiya/internal/audit/domain"
	"github.com/smallbiznis/nasiya/internal/clock"
	debtordomain "github.com/smallbiznis/nasiya/internal/debtor/domain"
	"github.com/smallbiznis/nasiya/internal/ledger/domain"
	notificationdomain "github.com/smallbiznis/nasiya/internal/notification/domain"
	"github.com/smallbiznis/nasiya/internal/observability/metrics"
	"github.com/smallbiznis/nasiya/internal/rating/engine"
	settingsdomain "github.com/smallbiznis/nasiya/internal/settings/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Repo          domain.Repository
	DebtorRepo    debtordomain.Repository
	Limits        settingsdomain.LimitProvider
	Audit         auditdomain.Service
	Notifications notificationdomain.Service
	Clock         clock.Clock
	Metrics       *metrics.Metrics `optional:"true"`
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	repo          domain.Repository
	debtorRepo    debtordomain.Repository
	limits        settingsdomain.LimitProvider
	audit         auditdomain.Service
	notifications notificationdomain.Service
	clock         clock.Clock
	metrics       *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("ledger.service"),
		genID:         p.GenID,
		repo:          p.Repo,
		debtorRepo:    p.DebtorRepo,
		limits:        p.Limits,
		audit:         p.Audit,
		notifications: p.Notifications,
		clock:         p.Clock,
		metrics:       p.Metrics,
	}
}

func (s *Service) RecordDebt(ctx context.Context, req domain.RecordDebtRequest) (domain.RecordDebtResult, error) {
	debtorID, err := parseID(req.DebtorID)
	if err != nil {
		return domain.RecordDebtResult{}, err
	}
	if !req.Amount.IsPositive() {
		return domain.RecordDebtResult{}, domain.ErrInvalidAmount
	}
	items, err := normalizeItems(req.Items)
	if err != nil {
		return domain.RecordDebtResult{}, err
	}

	now := s.clock.Now().UTC()
	debt := domain.Debt{
		ID:          s.genID.Generate(),
		DebtorID:    debtorID,
		Amount:      req.Amount,
		Description: optionalString(req.Description),
		Items:       items,
		CreatedAt:   now,
	}

	var (
		debtor   debtordomain.Debtor
		newTotal decimal.Decimal
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.debtorRepo.FindByIDForUpdate(ctx, tx, debtorID)
		if err != nil {
			return err
		}
		if locked == nil {
			return debtordomain.ErrNotFound
		}
		debtor = *locked

		if err := s.repo.InsertDebt(ctx, tx, &debt); err != nil {
			return err
		}

		newTotal = debtor.TotalDebt.Add(debt.Amount)
		if err := s.debtorRepo.UpdateBalance(ctx, tx, debtorID, debtordomain.BalanceUpdate{
			TotalDebt: newTotal,
			UpdatedAt: now,
		}); err != nil {
			return err
		}

		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionDebtAdded,
			EntityType: auditdomain.EntityDebt,
			EntityID:   debt.ID.String(),
			Metadata: map[string]any{
				"debtor_id":   debtorID.String(),
				"amount":      debt.Amount.String(),
				"description": req.Description,
			},
		})
	})
	if err != nil {
		return domain.RecordDebtResult{}, err
	}

	overLimit := newTotal.GreaterThan(s.limits.DebtLimit(ctx))
	s.metrics.RecordDebt(ctx, overLimit)
	if overLimit {
		s.notify(ctx, notificationdomain.DebtLimitExceeded(debtorID, debtor.FirstName, debtor.LastName, newTotal))
	}

	return domain.RecordDebtResult{
		Debt:      debt,
		TotalDebt: newTotal,
		OverLimit: overLimit,
	}, nil
}

func (s *Service) RecordPayment(ctx context.Context, req domain.RecordPaymentRequest) (domain.RecordPaymentResult, error) {
	debtorID, err := parseID(req.DebtorID)
	if err != nil {
		return domain.RecordPaymentResult{}, err
	}
	if !req.Amount.IsPositive() {
		return domain.RecordPaymentResult{}, domain.ErrInvalidAmount
	}
	paymentType, err := domain.ParsePaymentType(req.PaymentType)
	if err != nil {
		return domain.RecordPaymentResult{}, err
	}

	now := s.clock.Now().UTC()
	payment := domain.Payment{
		ID:          s.genID.Generate(),
		DebtorID:    debtorID,
		Amount:      req.Amount,
		PaymentType: paymentType,
		Note:        optionalString(req.Note),
		CreatedAt:   now,
	}

	var (
		debtor   debtordomain.Debtor
		newTotal decimal.Decimal
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		locked, err := s.debtorRepo.FindByIDForUpdate(ctx, tx, debtorID)
		if err != nil {
			return err
		}
		if locked == nil {
			return debtordomain.ErrNotFound
		}
		debtor = *locked

		if payment.Amount.GreaterThan(debtor.TotalDebt) {
			return domain.ErrPaymentExceedsDebt
		}

		if err := s.repo.InsertPayment(ctx, tx, &payment); err != nil {
			return err
		}

		newTotal = debtor.TotalDebt.Sub(payment.Amount)
		if err := s.debtorRepo.UpdateBalance(ctx, tx, debtorID, debtordomain.BalanceUpdate{
			TotalDebt:       newTotal,
			LastPaymentDate: &now,
			ClearOverdue:    true,
			UpdatedAt:       now,
		}); err != nil {
			return err
		}

		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionPaymentAdded,
			EntityType: auditdomain.EntityPayment,
			EntityID:   payment.ID.String(),
			Metadata: map[string]any{
				"debtor_id":    debtorID.String(),
				"amount":       payment.Amount.String(),
				"payment_type": string(paymentType),
			},
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrPaymentExceedsDebt) {
			s.metrics.RecordPaymentRejected(ctx, err.Error())
		}
		return domain.RecordPaymentResult{}, err
	}

	s.metrics.RecordPayment(ctx, string(paymentType))
	s.notify(ctx, notificationdomain.PaymentReceived(debtorID, debtor.FirstName, debtor.LastName, payment.Amount))

	return domain.RecordPaymentResult{
		Payment:   payment,
		TotalDebt: newTotal,
	}, nil
}

func (s *Service) ListDebts(ctx context.Context, req domain.ListDebtsRequest) ([]domain.Debt, error) {
	filter := domain.DebtFilter{}
	if strings.TrimSpace(req.DebtorID) != "" {
		id, err := parseID(req.DebtorID)
		if err != nil {
			return nil, err
		}
		filter.DebtorID = &id
	}

	items, err := s.repo.ListDebts(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	return derefDebts(items), nil
}

func (s *Service) ListPayments(ctx context.Context, req domain.ListPaymentsRequest) ([]domain.Payment, error) {
	filter := domain.PaymentFilter{}
	if strings.TrimSpace(req.DebtorID) != "" {
		id, err := parseID(req.DebtorID)
		if err != nil {
			return nil, err
		}
		filter.DebtorID = &id
	}
	if strings.TrimSpace(req.PaymentType) != "" {
		paymentType, err := domain.ParsePaymentType(req.PaymentType)
		if err != nil {
			return nil, err
		}
		filter.PaymentType = paymentType
	}

	items, err := s.repo.ListPayments(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	return derefPayments(items), nil
}

func (s *Service) History(ctx context.Context, debtorID string) (engine.History, error) {
	debts, payments, err := s.loadAll(ctx, debtorID)
	if err != nil {
		return engine.History{}, err
	}
	return domain.ToHistory(debts, payments), nil
}

func (s *Service) Timeline(ctx context.Context, debtorID string) ([]domain.TimelineEvent, error) {
	debts, payments, err := s.loadAll(ctx, debtorID)
	if err != nil {
		return nil, err
	}
	return domain.BuildTimeline(debts, payments), nil
}

func (s *Service) loadAll(ctx context.Context, rawID string) ([]domain.Debt, []domain.Payment, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, nil, err
	}
	debtor, err := s.debtorRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, nil, err
	}
	if debtor == nil {
		return nil, nil, debtordomain.ErrNotFound
	}

	debts, err := s.repo.ListDebts(ctx, s.db, domain.DebtFilter{DebtorID: &id})
	if err != nil {
		return nil, nil, err
	}
	payments, err := s.repo.ListPayments(ctx, s.db, domain.PaymentFilter{DebtorID: &id})
	if err != nil {
		return nil, nil, err
	}
	return derefDebts(debts), derefPayments(payments), nil
}

func (s *Service) notify(ctx context.Context, input notificationdomain.Input) {
	if s.notifications == nil {
		return
	}
	if _, err := s.notifications.Notify(ctx, input); err != nil {
		s.log.Warn("failed to create notification",
			zap.String("type", string(input.Type)),
			zap.Error(err),
		)
	}
}

func normalizeItems(items []domain.DebtItem) ([]domain.DebtItem, error) {
	if len(items) == 0 {
		return nil, nil
	}
	out := make([]domain.DebtItem, 0, len(items))
	for _, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" || item.Price.IsNegative() {
			return nil, domain.ErrInvalidAmount
		}
		if item.Quantity != nil && *item.Quantity <= 0 {
			return nil, domain.ErrInvalidAmount
		}
		out = append(out, item)
	}
	return out, nil
}

func derefDebts(items []*domain.Debt) []domain.Debt {
	out := make([]domain.Debt, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out
}

func derefPayments(items []*domain.Payment) []domain.Payment {
	out := make([]domain.Payment, 0, len(items))
	for _, item := range items {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, debtordomain.ErrInvalidID
	}
	return id, nil
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
