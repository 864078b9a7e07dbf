package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	auditdomain "github.com/smallbiznis/nasiya/internal/audit/domain"
	"github.com/smallbiznis/nasiya/internal/cache"
	"github.com/smallbiznis/nasiya/internal/clock"
	"github.com/smallbiznis/nasiya/internal/settings/domain"
	"github.com/smallbiznis/nasiya/pkg/db/option"
	"github.com/smallbiznis/nasiya/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Repo  repository.Repository[domain.Setting]
	Cache cache.SettingsCache
	Audit auditdomain.Service
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  repository.Repository[domain.Setting]
	cache cache.SettingsCache
	audit auditdomain.Service
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("settings.service"),
		repo:  p.Repo,
		cache: p.Cache,
		audit: p.Audit,
		clock: p.Clock,
	}
}

func (s *Service) Get(ctx context.Context, key string) (*domain.Setting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, domain.ErrInvalidKey
	}
	setting, err := s.repo.FindOne(ctx, &domain.Setting{Key: key})
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, domain.ErrNotFound
	}
	return setting, nil
}

func (s *Service) All(ctx context.Context) ([]domain.Setting, error) {
	items, err := s.repo.Find(ctx, nil, option.WithSortBy("key", false))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Setting, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (s *Service) Set(ctx context.Context, req domain.SetRequest) (domain.Setting, error) {
	key := strings.TrimSpace(req.Key)
	value := strings.TrimSpace(req.Value)
	if key == "" {
		return domain.Setting{}, domain.ErrInvalidKey
	}
	if value == "" {
		return domain.Setting{}, domain.ErrInvalidValue
	}
	if key == domain.KeyDebtLimit {
		limit, err := decimal.NewFromString(value)
		if err != nil || limit.IsNegative() {
			return domain.Setting{}, domain.ErrInvalidValue
		}
		value = limit.String()
	}

	setting := domain.Setting{
		Key:       key,
		Value:     value,
		UpdatedAt: s.clock.Now(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		previous, err := s.repo.WithTrx(tx).FindOne(ctx, &domain.Setting{Key: key})
		if err != nil {
			return err
		}
		if err := s.repo.WithTrx(tx).Upsert(ctx, &setting, "key", "value", "updated_at"); err != nil {
			return err
		}

		metadata := map[string]any{"key": key, "value": value}
		if previous != nil {
			metadata["previous_value"] = previous.Value
		}
		return s.audit.Record(ctx, tx, auditdomain.Entry{
			Action:     auditdomain.ActionUpdate,
			EntityType: auditdomain.EntitySettings,
			EntityID:   key,
			Metadata:   metadata,
		})
	})
	if err != nil {
		return domain.Setting{}, err
	}

	s.cache.Invalidate(key)
	return setting, nil
}

// DebtLimit never fails; lookup errors fall back to the default limit.
func (s *Service) DebtLimit(ctx context.Context) decimal.Decimal {
	if raw, ok := s.cache.Get(domain.KeyDebtLimit); ok {
		return parseLimit(raw)
	}

	setting, err := s.repo.FindOne(ctx, &domain.Setting{Key: domain.KeyDebtLimit})
	if err != nil {
		s.log.Warn("failed to load debt limit, using default", zap.Error(err))
		return domain.DefaultDebtLimit
	}

	raw := ""
	if setting != nil {
		raw = setting.Value
	}
	s.cache.Set(domain.KeyDebtLimit, raw)
	return parseLimit(raw)
}

func parseLimit(raw string) decimal.Decimal {
	limit, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || limit.IsNegative() {
		return domain.DefaultDebtLimit
	}
	return limit
}
