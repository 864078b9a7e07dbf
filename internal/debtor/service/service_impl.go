package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/nasiya/internal/audit/domain"
	"github.com/smallbiznis/nasiya/internal/clock"
	"github.com/smallbiznis/nasiya/internal/debtor/domain"
	ledgerdomain "github.com/smallbiznis/nasiya/internal/ledger/domain"
	settingsdomain "github.com/smallbiznis/nasiya/internal/settings/domain"
	"github.com/smallbiznis/nasiya/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 250
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	LedgerRepo ledgerdomain.Repository
	Limits     settingsdomain.LimitProvider
	Audit      auditdomain.Service
	Clock      clock.Clock
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	ledgerRepo ledgerdomain.Repository
	limits     settingsdomain.LimitProvider
	audit      auditdomain.Service
	clock      clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("debtor.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		ledgerRepo: p.LedgerRepo,
		limits:     p.Limits,
		audit:      p.Audit,
		clock:      p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateDebtorRequest) (domain.Debtor, error) {
	firstName := strings.TrimSpace(req.FirstName)
	lastName := strings.TrimSpace(req.LastName)
	if firstName == "" || lastName == "" {
		return domain.Debtor{}, domain.ErrInvalidName
	}
	if req.DebtAmount.Valid && req.DebtAmount.Decimal.IsNegative() {
		return domain.Debtor{}, domain.ErrInvalidAmount
	}

	now := s.clock.Now().UTC()
	debtor := domain.Debtor{
		ID:          s.genID.Generate(),
		FirstName:   firstName,
		LastName:    lastName,
		PhoneNumber: normalizeOptional(req.PhoneNumber),
		Address:     normalizeOptional(req.Address),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var initial *ledgerdomain.Debt
	if req.DebtAmount.Valid && req.DebtAmount.Decimal.IsPositive() {
		debtor.TotalDebt = req.DebtAmount.Decimal
		initial = &ledgerdomain.Debt{
			ID:          s.genID.Generate(),
			DebtorID:    debtor.ID,
			Amount:      req.DebtAmount.Decimal,
			Description: normalizeOptional(req.DebtDescription),
			CreatedAt:   now,
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &debtor); err != nil {
			return err
		}
		if initial != nil {
			if err := s.ledgerRepo.InsertDebt(ctx, tx, initial); err != nil {
				return err
			}
		}

		metadata := map[string]any{
			"first_name":   debtor.FirstName,
			"last_name":    debtor.LastName,
			"phone_number": debtor.PhoneNumber,
			"total_debt":   debtor.TotalDebt.String(),
		}
		if initial != nil {
			metadata["initial_debt_id"] = initial.ID.String()
		}
		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionCreate,
			EntityType: auditdomain.EntityDebtor,
			EntityID:   debtor.ID.String(),
			Metadata:   metadata,
		})
	})
	if err != nil {
		return domain.Debtor{}, err
	}
	return debtor, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Debtor, error) {
	debtorID, err := parseID(id)
	if err != nil {
		return domain.Debtor{}, err
	}
	debtor, err := s.repo.FindByID(ctx, s.db, debtorID)
	if err != nil {
		return domain.Debtor{}, err
	}
	if debtor == nil {
		return domain.Debtor{}, domain.ErrNotFound
	}
	return *debtor, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateDebtorRequest) (domain.Debtor, error) {
	debtorID, err := parseID(id)
	if err != nil {
		return domain.Debtor{}, err
	}

	updates := map[string]any{}
	if req.FirstName != nil {
		name := strings.TrimSpace(*req.FirstName)
		if name == "" {
			return domain.Debtor{}, domain.ErrInvalidName
		}
		updates["first_name"] = name
	}
	if req.LastName != nil {
		name := strings.TrimSpace(*req.LastName)
		if name == "" {
			return domain.Debtor{}, domain.ErrInvalidName
		}
		updates["last_name"] = name
	}
	if req.PhoneNumber.Set {
		updates["phone_number"] = normalizeOptional(req.PhoneNumber.Value)
	}
	if req.Address.Set {
		updates["address"] = normalizeOptional(req.Address.Value)
	}

	var updated domain.Debtor
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.repo.FindByID(ctx, tx, debtorID)
		if err != nil {
			return err
		}
		if existing == nil {
			return domain.ErrNotFound
		}
		if len(updates) == 0 {
			updated = *existing
			return nil
		}

		updates["updated_at"] = s.clock.Now().UTC()
		if err := s.repo.UpdateProfile(ctx, tx, debtorID, updates); err != nil {
			return err
		}

		current, err := s.repo.FindByID(ctx, tx, debtorID)
		if err != nil {
			return err
		}
		updated = *current

		patch := make(map[string]any, len(updates))
		for key, value := range updates {
			if key == "updated_at" {
				continue
			}
			patch[key] = value
		}
		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionUpdate,
			EntityType: auditdomain.EntityDebtor,
			EntityID:   debtorID.String(),
			Metadata:   map[string]any{"patch": patch},
		})
	})
	if err != nil {
		return domain.Debtor{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	debtorID, err := parseID(id)
	if err != nil {
		return err
	}
	deleted, err := s.deleteMany(ctx, []snowflake.ID{debtorID})
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) BulkDelete(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, domain.ErrInvalidIDs
	}
	parsed := make([]snowflake.ID, 0, len(ids))
	seen := make(map[snowflake.ID]struct{}, len(ids))
	for _, raw := range ids {
		id, err := parseID(raw)
		if err != nil {
			return 0, domain.ErrInvalidIDs
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		parsed = append(parsed, id)
	}
	return s.deleteMany(ctx, parsed)
}

// deleteMany removes debtors with their debts and payments in one transaction.
func (s *Service) deleteMany(ctx context.Context, ids []snowflake.ID) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.ledgerRepo.DeleteByDebtors(ctx, tx, ids); err != nil {
			return err
		}
		n, err := s.repo.Delete(ctx, tx, ids)
		if err != nil {
			return err
		}
		deleted = n
		if n == 0 {
			return nil
		}

		for _, id := range ids {
			if err := s.audit.Record(ctx, tx, auditdomain.Entry{
				Action:     auditdomain.ActionDelete,
				EntityType: auditdomain.EntityDebtor,
				EntityID:   id.String(),
				Metadata:   map[string]any{"bulk": len(ids) > 1},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.log.Info("debtors deleted", zap.Int64("count", deleted))
	}
	return deleted, nil
}

func (s *Service) List(ctx context.Context, req domain.ListDebtorRequest) (domain.ListDebtorResponse, error) {
	status, err := domain.ParseStatus(strings.TrimSpace(req.Status))
	if err != nil {
		return domain.ListDebtorResponse{}, err
	}

	var cursor *domain.Cursor
	if strings.TrimSpace(req.PageToken) != "" {
		decoded, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return domain.ListDebtorResponse{}, domain.ErrInvalidToken
		}
		createdAt, err := time.Parse(time.RFC3339Nano, decoded.CreatedAt)
		if err != nil {
			return domain.ListDebtorResponse{}, domain.ErrInvalidToken
		}
		id, err := snowflake.ParseString(strings.TrimSpace(decoded.ID))
		if err != nil || id == 0 {
			return domain.ListDebtorResponse{}, domain.ErrInvalidToken
		}
		cursor = &domain.Cursor{ID: id, CreatedAt: createdAt}
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := domain.ListFilter{
		Search:   req.Search,
		Status:   status,
		Cursor:   cursor,
		PageSize: pageSize,
	}
	if status == domain.StatusInDebt || status == domain.StatusOverLimit {
		filter.Limit = s.limits.DebtLimit(ctx)
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return domain.ListDebtorResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(item *domain.Debtor) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        item.ID.String(),
			CreatedAt: item.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	debtors := make([]domain.Debtor, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		debtors = append(debtors, *item)
	}

	resp := domain.ListDebtorResponse{Debtors: debtors}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) Export(ctx context.Context, req domain.ExportRequest) ([]domain.ExportRow, error) {
	status, err := domain.ParseStatus(strings.TrimSpace(req.Status))
	if err != nil {
		return nil, err
	}
	limit := s.limits.DebtLimit(ctx)

	items, err := s.repo.List(ctx, s.db, domain.ListFilter{
		Search: req.Search,
		Status: status,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]snowflake.ID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	totals, err := s.ledgerRepo.TotalsByDebtor(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.ExportRow, 0, len(items))
	for _, item := range items {
		t := totals[item.ID]
		rows = append(rows, domain.ExportRow{
			Debtor:        *item,
			TotalDebts:    t.Debts,
			TotalPayments: t.Payments,
			Status:        domain.LimitStatus(item.TotalDebt, limit),
		})
	}
	return rows, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
